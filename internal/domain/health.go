package domain

type Health struct {
	Status string
	Time   int64
}
