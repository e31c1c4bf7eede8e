package users

import "strings"

// User is the authoritative identity record. PasswordHash holds either a
// bcrypt hash or the OAuth marker and is never serialized.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	SecName      string
	ProfilePic   *string
}

// Profile is the public view of a user returned to clients.
type Profile struct {
	UserID     string  `json:"user_id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	SecName    string  `json:"sec_name"`
	ProfilePic *string `json:"profile_pic"`
}

func (u *User) Profile() Profile {
	return Profile{
		UserID:     u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		SecName:    u.SecName,
		ProfilePic: u.ProfilePic,
	}
}

type NewUser struct {
	Email        string
	PasswordHash string
	FirstName    string
	SecName      string
	ProfilePic   *string
}

// ProfilePatch lists the columns a user may edit. A nil field is left
// untouched. ProfilePicFlag tells the edit path that the client changed
// the picture separately.
type ProfilePatch struct {
	FirstName      *string `json:"first_name"`
	SecName        *string `json:"sec_name"`
	Email          *string `json:"email"`
	ProfilePicFlag bool    `json:"profile_pic_flag"`
}

// Normalize trims values, drops empty ones and lower-cases the email.
func (p ProfilePatch) Normalize() ProfilePatch {
	p.FirstName = trimmed(p.FirstName)
	p.SecName = trimmed(p.SecName)
	p.Email = trimmed(p.Email)
	if p.Email != nil {
		e := NormalizeEmail(*p.Email)
		p.Email = &e
	}
	return p
}

// Empty reports whether no editable column is set.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.SecName == nil && p.Email == nil
}

// NormalizeEmail is the canonical form used for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
