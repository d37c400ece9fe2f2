package models

import "time"

// AttachmentKind names the four required player documents. The values
// double as the multipart form field names on the wire.
type AttachmentKind string

const (
	AttachmentIDCard      AttachmentKind = "idCard"
	AttachmentSchedule    AttachmentKind = "schedulePlayer"
	AttachmentPhoto       AttachmentKind = "photoPlayer"
	AttachmentMedicalExam AttachmentKind = "examMed"
)

// AttachmentKinds lists the kinds in wire order.
var AttachmentKinds = []AttachmentKind{
	AttachmentIDCard,
	AttachmentSchedule,
	AttachmentPhoto,
	AttachmentMedicalExam,
}

type Player struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	LastName  string `json:"lastName" db:"last_name"`
	NumberIPN int    `json:"numberIpn" db:"number_ipn"`
	Number    int    `json:"number" db:"number"`
	CURP      string `json:"curp" db:"curp"`
	Position  string `json:"position" db:"position"`
	TeamID    int    `json:"team" db:"team_id"`

	IDCardKey      string `json:"-" db:"id_card_key"`
	ScheduleKey    string `json:"-" db:"schedule_key"`
	PhotoKey       string `json:"-" db:"photo_key"`
	MedicalExamKey string `json:"-" db:"medical_exam_key"`

	// Public URLs derived from the keys, filled by the service layer.
	IDCardURL      string `json:"idCard,omitempty" db:"-"`
	ScheduleURL    string `json:"schedulePlayer,omitempty" db:"-"`
	PhotoURL       string `json:"photoPlayer,omitempty" db:"-"`
	MedicalExamURL string `json:"examMed,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AttachmentKey returns the stored object key for the given kind.
func (p *Player) AttachmentKey(kind AttachmentKind) string {
	switch kind {
	case AttachmentIDCard:
		return p.IDCardKey
	case AttachmentSchedule:
		return p.ScheduleKey
	case AttachmentPhoto:
		return p.PhotoKey
	case AttachmentMedicalExam:
		return p.MedicalExamKey
	}
	return ""
}

// SetAttachmentKey stores the object key for the given kind.
func (p *Player) SetAttachmentKey(kind AttachmentKind, key string) {
	switch kind {
	case AttachmentIDCard:
		p.IDCardKey = key
	case AttachmentSchedule:
		p.ScheduleKey = key
	case AttachmentPhoto:
		p.PhotoKey = key
	case AttachmentMedicalExam:
		p.MedicalExamKey = key
	}
}

// AttachmentKeys returns the non-empty object keys of all attachments.
func (p *Player) AttachmentKeys() []string {
	keys := make([]string, 0, len(AttachmentKinds))
	for _, kind := range AttachmentKinds {
		if key := p.AttachmentKey(kind); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
