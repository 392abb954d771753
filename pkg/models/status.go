package models

type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s Status) String() string {
	return s.Name
}

// StatusPending is the seeded status assigned to every newly created task.
var StatusPending = Status{ID: 1, Name: "Pendiente"}
