package models

import "time"

// Tool — карточка инструмента в каталоге.
// Slug вычисляется из Name при создании и больше не пересчитывается.
type Tool struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Pricing     string    `json:"pricing"`
	Features    []string  `json:"features"`
	Pros        []string  `json:"pros"`
	Cons        []string  `json:"cons"`
	Platforms   []string  `json:"platforms"`
	BestFor     []string  `json:"bestFor"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	Logo        string    `json:"logo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
