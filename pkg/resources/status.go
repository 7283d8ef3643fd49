package resources

import (
	"strings"
)

// Status is the approval state of a request. The backend only sends free
// text; ParseStatus maps it once at the boundary.
type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusPartiallyApproved
	StatusRejected
)

// Color names used by the badges.
const (
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorRed    = "red"
)

// ParseStatus matches case-insensitively: "sebagian" wins over
// "disetujui", then "ditolak"; anything else is pending.
func ParseStatus(s string) Status {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "sebagian"):
		return StatusPartiallyApproved
	case strings.Contains(l, "disetujui"):
		return StatusApproved
	case strings.Contains(l, "ditolak"):
		return StatusRejected
	default:
		return StatusPending
	}
}

func (s Status) String() string {
	switch s {
	case StatusApproved:
		return "Disetujui"
	case StatusPartiallyApproved:
		return "Disetujui Sebagian"
	case StatusRejected:
		return "Ditolak"
	default:
		return "Pending"
	}
}

// Badge is the label and colour shown for a status.
type Badge struct {
	Label string
	Color string
}

// StatusBadge keeps the raw label for pending records ("Menunggu", "Draft"),
// since that is what the backend wants the user to read.
func StatusBadge(raw string) Badge {
	st := ParseStatus(raw)
	switch st {
	case StatusApproved:
		return Badge{Label: st.String(), Color: ColorGreen}
	case StatusPartiallyApproved:
		return Badge{Label: st.String(), Color: ColorBlue}
	case StatusRejected:
		return Badge{Label: st.String(), Color: ColorRed}
	}
	label := strings.TrimSpace(raw)
	if label == "" {
		label = st.String()
	}
	return Badge{Label: label, Color: ColorYellow}
}
