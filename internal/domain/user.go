package domain

import "time"

type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Hash       string    `json:"passwordHash,omitempty"`
	SignupDate time.Time `json:"signupDate"`
	LastLogin  time.Time `json:"lastLogin,omitempty"`
	IsBlocked  bool      `json:"isBlocked"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Public strips the password hash before a user leaves the process.
func (u User) Public() User {
	u.Hash = ""
	return u
}

type Address struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"userId"`
	Label   string `json:"label"`
	Street  string `json:"street"`
	Area    string `json:"area"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

type Testimonial struct {
	ID            int64     `json:"id" yaml:"id"`
	CustomerName  string    `json:"customerName" yaml:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty" yaml:"customerEmail"`
	CustomerPhone string    `json:"customerPhone,omitempty" yaml:"customerPhone"`
	ProductName   string    `json:"productName" yaml:"productName"`
	Rating        int       `json:"rating" yaml:"rating"`
	Text          string    `json:"testimonial" yaml:"testimonial"`
	OrderDate     time.Time `json:"orderDate,omitempty" yaml:"orderDate"`
	IsApproved    bool      `json:"isApproved" yaml:"isApproved"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
}
