package domain

import "fmt"

type Passenger struct {
	ID    int64  `json:"id"`
	First string `json:"first"`
	Last  string `json:"last"`
}

func (p Passenger) String() string {
	return fmt.Sprintf("%s %s", p.First, p.Last)
}
