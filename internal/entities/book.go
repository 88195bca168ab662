package entities

import (
	"strconv"
	"strings"
)

// Book is a single catalog entry. Title is unique across the catalog.
type Book struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Title  string  `gorm:"size:250;not null;unique" json:"title"`
	Author string  `gorm:"size:250;not null" json:"author"`
	Rating float64 `gorm:"type:float;not null" json:"rating"`
}

func (Book) TableName() string {
	return "books"
}

// FormatRating prints a rating the way the catalog shows it: integral values
// keep one decimal place ("7.0"), others use the shortest form ("8.5").
func FormatRating(rating float64) string {
	s := strconv.FormatFloat(rating, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Summary renders the book as "<id>: <title> by <author> (Rating: <rating>)".
func (b Book) Summary() string {
	return strconv.FormatUint(uint64(b.ID), 10) + ": " + b.Title +
		" by " + b.Author + " (Rating: " + FormatRating(b.Rating) + ")"
}
