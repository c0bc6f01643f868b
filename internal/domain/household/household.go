// Package household contains the household domain. A household groups
// users who share an ingredient inventory, recipes, meal plans, and
// grocery lists. Joining is by invite code.
package household

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/user"
)

// InviteCodeLength is the length of generated invite codes.
const InviteCodeLength = 8

// Household groups users sharing meal planning data.
type Household struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description,omitempty"`
	InviteCode  string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"invite_code"`

	CreatedByID uuid.UUID `gorm:"type:char(36);not null" json:"created_by_id"`

	Members []user.User `gorm:"many2many:user_households;constraint:OnDelete:CASCADE" json:"members,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a household owned by the given user with a fresh invite code.
func New(name, description string, createdBy uuid.UUID) (*Household, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if len(description) > 500 {
		return nil, ErrDescriptionTooLong
	}

	return &Household{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		InviteCode:  NewInviteCode(),
		CreatedByID: createdBy,
	}, nil
}

// BeforeCreate assigns an ID when none is set.
func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (Household) TableName() string {
	return "households"
}

// Rename updates the household's name and description.
func (h *Household) Rename(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if len(description) > 500 {
		return ErrDescriptionTooLong
	}
	h.Name = name
	h.Description = description
	return nil
}

// RotateInviteCode replaces the invite code, invalidating the old one.
func (h *Household) RotateInviteCode() {
	h.InviteCode = NewInviteCode()
}

// IsOwner reports whether the given user created the household.
func (h *Household) IsOwner(userID uuid.UUID) bool {
	return h.CreatedByID == userID
}

// NewInviteCode generates a random, human-typeable invite code. The
// alphabet omits 0/O and 1/I to avoid transcription mistakes.
func NewInviteCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}

func validateName(name string) error {
	if len(name) == 0 {
		return ErrNameRequired
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
