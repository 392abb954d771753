package models

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c Category) String() string {
	return c.Name
}
