package notify

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DueRent is the data needed for a rent reminder.
type DueRent struct {
	DueDate    time.Time
	Email      string
	TenantName string
	RoomNo     string
	RentAmount decimal.Decimal
}

// FormatDueRentEmail builds the reminder sent on a tenant's rent due date.
func FormatDueRentEmail(d DueRent) Message {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Dear %s,\n\n", d.TenantName)
	fmt.Fprintf(&buf, "This is a friendly reminder that your rent of $%s for room %s is due on %s.\n\n",
		d.RentAmount.StringFixed(2), d.RoomNo, d.DueDate.Format("2006-01-02"))
	fmt.Fprintf(&buf, "Please make sure to pay it on time.\n\n")
	fmt.Fprintf(&buf, "Thank you,\nProperty Management Team\n")

	return Message{
		To:      d.Email,
		Subject: fmt.Sprintf("Rent Due Reminder for Room %s", d.RoomNo),
		Body:    buf.String(),
	}
}
