package notify

import (
	"fmt"
	"html"
	"strings"
)

const emailLayout = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>%[1]s</title></head>
<body style="background:#f5f5f5;font-family:Arial, Helvetica, sans-serif;padding:30px;">
<div style="max-width:600px;background:#fff;margin:auto;border-radius:8px;overflow:hidden;">
  <div style="background:#004aad;color:#fff;padding:16px;text-align:center;font-size:20px;font-weight:bold;">%[2]s</div>
  <div style="padding:24px;color:#333;">%[3]s</div>
  <div style="background:#eee;color:#555;padding:12px;text-align:center;font-size:13px;">&copy; %[4]s</div>
</div>
</body>
</html>`

func wrapHTML(title, header, body, resort string) string {
	return fmt.Sprintf(emailLayout, html.EscapeString(title), html.EscapeString(header), body, html.EscapeString(resort))
}

// detailRows renders label/value pairs as table rows; empty values become "-".
func detailRows(pairs ...string) string {
	var b strings.Builder
	b.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
	for i := 0; i+1 < len(pairs); i += 2 {
		v := strings.TrimSpace(pairs[i+1])
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&b, "<tr><td><strong>%s:</strong></td><td>%s</td></tr>", html.EscapeString(pairs[i]), html.EscapeString(v))
	}
	b.WriteString("</table>")
	return b.String()
}

func detailText(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		v := strings.TrimSpace(pairs[i+1])
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", pairs[i], v)
	}
	return b.String()
}

func renderBookingCreated(ev Event, resort string) Message {
	g := ev.Guest
	pairs := []string{
		"Room", ev.RoomID,
		"Name", g.Name,
		"Email", g.Email,
		"Phone", g.Phone,
		"Address", g.Address,
		"Check-in", g.CheckIn,
		"Check-out", g.CheckOut,
	}
	subject := fmt.Sprintf("New Booking Request - Room %s", ev.RoomID)
	body := "<p>A new booking request has been made:</p>" + detailRows(pairs...) +
		`<p style="margin-top:16px;">Please log into the admin panel to verify this booking.</p>`
	return Message{
		Subject: subject,
		Text:    "A new booking request has been made:\n\n" + detailText(pairs...) + "\nPlease log into the admin panel to verify this booking.\n",
		HTML:    wrapHTML(subject, resort+" - New Booking Request", body, resort+" | Booking Notification"),
	}
}

func renderBookingConfirmed(ev Event, resort string) Message {
	g := ev.Guest
	pairs := []string{"Room", ev.RoomID, "Check-in", g.CheckIn, "Check-out", g.CheckOut}
	subject := fmt.Sprintf("Your Booking is Confirmed - Room %s", ev.RoomID)
	body := fmt.Sprintf("<p>Dear <strong>%s</strong>,</p><p>Your booking at <strong>%s</strong> has been confirmed!</p>",
		html.EscapeString(g.Name), html.EscapeString(resort)) +
		detailRows(pairs...) +
		`<p style="margin-top:16px;">We look forward to welcoming you.</p>` +
		`<p style="font-size:12px;color:#666;">If you did not make this booking, please contact the resort immediately.</p>`
	return Message{
		To:      g.Email,
		Subject: subject,
		Text: fmt.Sprintf("Dear %s,\n\nYour booking at %s has been confirmed.\n\n%s\nWe look forward to welcoming you.\n",
			g.Name, resort, detailText(pairs...)),
		HTML: wrapHTML(subject, "Booking Confirmed - "+resort, body, resort+" | Thank you for choosing us"),
	}
}

func renderBookingRejected(ev Event, resort string) Message {
	g := ev.Guest
	pairs := []string{"Room", ev.RoomID, "Check-in", g.CheckIn, "Check-out", g.CheckOut}
	subject := fmt.Sprintf("Your Booking Request - Room %s", ev.RoomID)
	body := fmt.Sprintf("<p>Dear <strong>%s</strong>,</p><p>We are sorry, we could not confirm your booking request at <strong>%s</strong>.</p>",
		html.EscapeString(g.Name), html.EscapeString(resort)) +
		detailRows(pairs...) +
		`<p style="margin-top:16px;">Please contact us to arrange another room or date.</p>`
	return Message{
		To:      g.Email,
		Subject: subject,
		Text: fmt.Sprintf("Dear %s,\n\nWe are sorry, we could not confirm your booking request at %s.\n\n%s\nPlease contact us to arrange another room or date.\n",
			g.Name, resort, detailText(pairs...)),
		HTML: wrapHTML(subject, "Booking Update - "+resort, body, resort),
	}
}

func renderCheckoutReminder(ev Event, resort string) Message {
	g := ev.Guest
	pairs := []string{
		"Room", ev.RoomID,
		"Name", g.Name,
		"Email", g.Email,
		"Phone", g.Phone,
		"Check-in", g.CheckIn,
		"Check-out", g.CheckOut,
	}
	subject := fmt.Sprintf("Checkout Reminder - Room %s", ev.RoomID)
	body := "<p>This guest is scheduled to check out today:</p>" + detailRows(pairs...) +
		`<p style="margin-top:16px;">Please prepare for room inspection.</p>`
	return Message{
		Subject: subject,
		Text:    "This guest is scheduled to check out today:\n\n" + detailText(pairs...) + "\nPlease prepare for room inspection.\n",
		HTML:    wrapHTML(subject, "Checkout Reminder", body, resort),
	}
}
