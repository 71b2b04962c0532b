package notification

import (
	"fmt"
	"strings"

	"github.com/spec-kit/room-reservation/internal/domain"
)

// Message is a rendered email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

var roleLabels = map[domain.Role]string{
	domain.RoleDelegate:      "Delegate",
	domain.RoleInstructor:    "Instructor",
	domain.RoleAdministrator: "Administrator",
}

// RoleLabel returns the display name of a role.
func RoleLabel(role domain.Role) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return string(role)
}

// RegistrationMessage tells a new account it awaits approval.
func RegistrationMessage(from string, account *domain.Account) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", account.Name)
	fmt.Fprintf(&b, "Your account has been created as %s.\n\n", RoleLabel(account.Role))
	b.WriteString("An administrator will approve it shortly. You will be able to book conference rooms once it is active.\n\n")
	b.WriteString("Regards,\nRoom reservation service\n")

	return Message{
		From:    from,
		To:      account.Email,
		Subject: "Your account is awaiting approval",
		Body:    b.String(),
	}
}

// ConfirmationMessage tells the owner a reservation was confirmed.
func ConfirmationMessage(from string, res *domain.Reservation, room *domain.Room, account *domain.Account) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", account.Name)
	fmt.Fprintf(&b, "Your reservation for %s has been CONFIRMED.\n\n", room.Name)
	fmt.Fprintf(&b, "Date: %s\n", res.Date.Format(domain.DateLayout))
	fmt.Fprintf(&b, "Time: %s - %s\n", res.Start, res.End)
	fmt.Fprintf(&b, "Room: %s - %s\n\n", room.Name, room.Location)
	b.WriteString("Thank you for using the room reservation service.\n\n")
	b.WriteString("Regards,\nRoom reservation service\n")

	return Message{
		From:    from,
		To:      account.Email,
		Subject: "Your reservation has been confirmed",
		Body:    b.String(),
	}
}

// ApprovalMessage tells an account it may now sign in.
func ApprovalMessage(from string, account *domain.Account) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", account.Name)
	b.WriteString("Your account has been approved. You can now sign in and book conference rooms.\n\n")
	b.WriteString("Regards,\nRoom reservation service\n")

	return Message{
		From:    from,
		To:      account.Email,
		Subject: "Your account is active",
		Body:    b.String(),
	}
}
