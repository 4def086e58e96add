package models

// User represents a registered box office customer
type User struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Password  string   `json:"-"`
	IsStudent bool     `json:"isStudent"`
	UniName   string   `json:"uniName,omitempty"`
	StudentID string   `json:"studentId,omitempty"`
	Tickets   []Ticket `json:"tickets"`
}

// Profile holds the fields collected at registration
type Profile struct {
	Name      string
	Email     string
	Phone     string
	Password  string
	IsStudent bool
	UniName   string
	StudentID string
}

// NewUser creates a user with no tickets from a registration profile
func NewUser(p Profile) User {
	return User{
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Password:  p.Password,
		IsStudent: p.IsStudent,
		UniName:   p.UniName,
		StudentID: p.StudentID,
	}
}

// VerifyLogin reports whether the name and password match this user.
// Passwords are stored and compared in clear text.
func (u *User) VerifyLogin(name, password string) bool {
	return u.Name == name && u.Password == password
}

// Clone returns a copy that shares no ticket or seat slices with u.
func (u User) Clone() User {
	out := u
	out.Tickets = make([]Ticket, len(u.Tickets))
	for i, t := range u.Tickets {
		out.Tickets[i] = t.Clone()
	}
	return out
}
