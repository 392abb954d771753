package models

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (u User) String() string {
	return u.Name
}

// UserUnassigned is the seeded placeholder assignee for new tasks.
var UserUnassigned = User{ID: 0, Name: "Sin asignar"}
