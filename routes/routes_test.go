package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resort-backend/controllers"
	"resort-backend/models"
	"resort-backend/notify"
	"resort-backend/services"
	"resort-backend/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *memPublisher) Publish(ctx context.Context, ev notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type memMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *memMailer) Send(ctx context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type harness struct {
	router *gin.Engine
	store  store.RoomStore
	events *memPublisher
	mailer *memMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	s := store.NewFileStore(filepath.Join(dir, "rooms.json"))
	events := &memPublisher{}
	mailer := &memMailer{}
	clock := services.Clock{
		Now:      func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
	auth, err := services.NewAuthService("1357", "routes-secret", time.Hour)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}

	r := SetupRouter(Controllers{
		Rooms: controllers.NewRoomController(s,
			services.NewBookingService(s, events, services.DefaultBookingRules(), clock),
			services.NewStatusService(s, events)),
		Menu:      controllers.NewMenuController(services.NewMenuService(dir)),
		Auth:      controllers.NewAuthController(auth, false),
		Contact:   controllers.NewContactController(services.NewContactService(mailer, "desk@example.com")),
		Reminders: controllers.NewReminderController(services.NewReminderService(s, events, clock)),
	}, auth, []string{"*"})
	return &harness{router: r, store: s, events: events, mailer: mailer}
}

func (h *harness) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
		}
	}
	return w, out
}

func (h *harness) login(t *testing.T) *http.Cookie {
	t.Helper()
	w, _ := h.do(t, http.MethodPost, "/api/admin-login", map[string]string{"pin": "1357"})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == services.AdminCookieName {
			if !c.HttpOnly {
				t.Fatalf("session cookie must be HttpOnly")
			}
			return c
		}
	}
	t.Fatalf("no session cookie set")
	return nil
}

func booking(roomID string) map[string]string {
	return map[string]string{
		"roomId":   roomID,
		"name":     "Ada Obi",
		"email":    "ada@example.com",
		"phone":    "08030000000",
		"checkIn":  "2024-01-01",
		"checkOut": "2024-01-02",
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", w.Code, body)
	}
}

func TestGetRooms(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(t, http.MethodGet, "/api/rooms", nil)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected response: %d %v", w.Code, body)
	}
	rooms, ok := body["rooms"].([]any)
	if !ok || len(rooms) != len(models.DefaultRooms()) {
		t.Fatalf("expected default inventory, got %v", body["rooms"])
	}
}

func TestBookRoomEndpoint(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(t, http.MethodPost, "/api/rooms", booking("1202"))
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected response: %d %v", w.Code, body)
	}
	if body["message"] != "Booking for Room 1202 sent for verification." {
		t.Fatalf("unexpected message %v", body["message"])
	}

	w, body = h.do(t, http.MethodPost, "/api/rooms", booking("1202"))
	if w.Code != http.StatusConflict || body["success"] != false {
		t.Fatalf("second booking should conflict: %d %v", w.Code, body)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "Pending") {
		t.Fatalf("message should name the status: %q", msg)
	}
}

func TestBookRoomEndpointErrors(t *testing.T) {
	h := newHarness(t)

	bad := booking("1202")
	bad["email"] = "nope"
	if w, body := h.do(t, http.MethodPost, "/api/rooms", bad); w.Code != http.StatusBadRequest || body["success"] != false {
		t.Fatalf("expected 400, got %d %v", w.Code, body)
	}
	if w, _ := h.do(t, http.MethodPost, "/api/rooms", booking("0000")); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPatchRequiresLogin(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(t, http.MethodPatch, "/api/rooms", map[string]string{"roomId": "1202", "status": "Under Maintenance"})
	if w.Code != http.StatusUnauthorized || body["success"] != false {
		t.Fatalf("expected 401, got %d %v", w.Code, body)
	}
	if w, _ := h.do(t, http.MethodPost, "/api/rooms/reset", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("reset should require login, got %d", w.Code)
	}
}

func TestLoginThenConfirmBooking(t *testing.T) {
	h := newHarness(t)
	if w, _ := h.do(t, http.MethodPost, "/api/rooms", booking("S1")); w.Code != http.StatusOK {
		t.Fatalf("booking failed: %d", w.Code)
	}
	cookie := h.login(t)

	w, body := h.do(t, http.MethodPatch, "/api/rooms", map[string]string{"roomId": "S1", "status": "Occupied"}, cookie)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected response: %d %v", w.Code, body)
	}
	if body["message"] != "Room S1 updated to Occupied" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	room, _ := body["room"].(map[string]any)
	if room == nil || room["guest"] == nil {
		t.Fatalf("guest should be retained: %v", body["room"])
	}
	if len(h.events.events) != 2 || h.events.events[1].Kind != notify.KindBookingConfirmed {
		t.Fatalf("expected confirmation to be queued, got %+v", h.events.events)
	}

	w, body = h.do(t, http.MethodPatch, "/api/rooms", map[string]string{"roomId": "S1", "status": "Occupied"}, cookie)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("repeating the current status should succeed: %d %v", w.Code, body)
	}
	if len(h.events.events) != 2 {
		t.Fatalf("repeating the current status must not notify again: %+v", h.events.events)
	}

	w, _ = h.do(t, http.MethodPatch, "/api/rooms", map[string]string{"roomId": "S1", "status": "Pending"}, cookie)
	if w.Code != http.StatusConflict {
		t.Fatalf("Occupied -> Pending should conflict, got %d", w.Code)
	}
	w, _ = h.do(t, http.MethodPatch, "/api/rooms", map[string]string{"roomId": "S1", "status": "Vacant"}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status should be 400, got %d", w.Code)
	}
}

func TestWrongPinAndLogout(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(t, http.MethodPost, "/api/admin-login", map[string]string{"pin": "0000"})
	if w.Code != http.StatusUnauthorized || body["success"] != false {
		t.Fatalf("expected 401, got %d %v", w.Code, body)
	}
	w, _ = h.do(t, http.MethodPost, "/api/admin-logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == services.AdminCookieName && c.MaxAge >= 0 {
			t.Fatalf("logout should expire the cookie")
		}
	}
}

func TestResetRooms(t *testing.T) {
	h := newHarness(t)
	if w, _ := h.do(t, http.MethodPost, "/api/rooms", booking("1203")); w.Code != http.StatusOK {
		t.Fatalf("booking failed")
	}
	cookie := h.login(t)
	w, body := h.do(t, http.MethodPost, "/api/rooms/reset", nil, cookie)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected response: %d %v", w.Code, body)
	}
	rooms, err := h.store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, r := range rooms {
		if r.Status != models.StatusAvailable || r.Guest != nil {
			t.Fatalf("room %s not reset: %+v", r.ID, r)
		}
	}
}

func TestMenuEndpoints(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(t, http.MethodGet, "/api/menu", nil)
	if w.Code != http.StatusOK || body["menus"] == nil {
		t.Fatalf("unexpected response: %d %v", w.Code, body)
	}
	if w, _ := h.do(t, http.MethodPost, "/api/menu", map[string]any{"Lounge": map[string]int{"x": 1}}); w.Code != http.StatusUnauthorized {
		t.Fatalf("price update should require login, got %d", w.Code)
	}
	cookie := h.login(t)
	// empty catalog: every id is unknown
	if w, _ := h.do(t, http.MethodPost, "/api/menu", map[string]any{"Lounge": map[string]int{"x": 1}}, cookie); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown id should be 400, got %d", w.Code)
	}
}

func TestMenuUpdateWithBarSection(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	payload := map[string]any{"Restaurant": map[string]int{}, "Lounge": map[string]int{}, "Bar": map[string]int{}}
	w, body := h.do(t, http.MethodPost, "/api/menu", payload, cookie)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("posting the loaded menu back should succeed: %d %v", w.Code, body)
	}
}

func TestSendMail(t *testing.T) {
	h := newHarness(t)
	w, body := h.do(t, http.MethodPost, "/api/sendMail", map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hi"})
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("unexpected response: %d %v", w.Code, body)
	}
	if len(h.mailer.sent) != 1 || h.mailer.sent[0].To != "desk@example.com" {
		t.Fatalf("unexpected mail: %+v", h.mailer.sent)
	}
	if w, _ := h.do(t, http.MethodPost, "/api/sendMail", map[string]string{"name": "Ada"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutReminderEndpoint(t *testing.T) {
	h := newHarness(t)
	if _, err := h.store.Update(context.Background(), "1204", func(r *models.Room) error {
		r.Status = models.StatusOccupied
		r.Guest = &models.Guest{Name: "G", Email: "g@example.com", Phone: "1", CheckIn: "2023-12-30", CheckOut: "2024-01-01"}
		return nil
	}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, path := range []string{"/api/checkout-reminder", "/api/reminders"} {
		w, body := h.do(t, http.MethodGet, path, nil)
		if w.Code != http.StatusOK || body["sent"] != float64(1) {
			t.Fatalf("%s: unexpected response %d %v", path, w.Code, body)
		}
	}
}
