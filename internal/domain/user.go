package domain

import "time"

type User struct {
	UserID      string    `json:"id" dynamodbav:"user_id"`
	Email       string    `json:"email" dynamodbav:"email"`
	Name        string    `json:"name" dynamodbav:"name"`
	DateOfBirth string    `json:"date_of_birth,omitempty" dynamodbav:"date_of_birth"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}
