package services

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FilterContentWithType narrows tx to one content type. Values that are not
// a known type are ignored rather than rejected.
func FilterContentWithType(tx *gorm.DB, t string) *gorm.DB {
	t = strings.ToLower(strings.TrimSpace(t))
	if !models.IsContentType(t) {
		return tx
	}
	return tx.Where("type = ?", t)
}

// FilterContentWithSearch matches the probe as a case-insensitive substring
// of the title, excerpt or body.
func FilterContentWithSearch(tx *gorm.DB, probe string) *gorm.DB {
	probe = strings.TrimSpace(probe)
	if len(probe) == 0 {
		return tx
	}

	probe = "%" + likeEscaper.Replace(strings.ToLower(probe)) + "%"
	return tx.Where(
		`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(excerpt, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(body, '')) LIKE ? ESCAPE '\')`,
		probe, probe, probe,
	)
}

func FilterContentFeatured(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_featured = ?", true)
}

func CountContent(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Content{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

func ListContent(tx *gorm.DB, take int, offset int, order any) ([]models.Content, error) {
	if take > MaxPageSize {
		take = MaxPageSize
	}

	var items []models.Content
	if err := PreloadContent(tx).
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	for idx := range items {
		if items[idx].Poll != nil {
			items[idx].Poll.TotalVotes = CountPollVotes(*items[idx].Poll)
		}
	}

	return items, nil
}

type Page struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Count       int64 `json:"count"`
	PerPage     int   `json:"per_page"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
	IsPaginated bool  `json:"is_paginated"`
}

// NewPage resolves the requested page number against count items. A value
// that is not an integer yields the first page and any number out of range
// yields the last one. There is always at least one page. perPage is bounded
// by MaxPageSize, the most ListContent returns at once.
func NewPage(count int64, perPage int, requested string) Page {
	if perPage <= 0 {
		perPage = DefaultPageSize
	} else if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	numPages := int(math.Ceil(float64(count) / float64(perPage)))
	if numPages < 1 {
		numPages = 1
	}

	number := 1
	if value, err := strconv.Atoi(strings.TrimSpace(requested)); err == nil {
		number = value
		if number < 1 || number > numPages {
			number = numPages
		}
	} else if errors.Is(err, strconv.ErrRange) {
		number = numPages
	}

	return Page{
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		PerPage:     perPage,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
		IsPaginated: numPages > 1,
	}
}

func (v Page) Offset() int {
	return (v.Number - 1) * v.PerPage
}

// PaginateContent counts the matching items, resolves the page and lists it
// newest first.
func PaginateContent(tx *gorm.DB, perPage int, requested string) ([]models.Content, Page, error) {
	count, err := CountContent(tx.Session(&gorm.Session{}))
	if err != nil {
		return nil, Page{}, err
	}

	page := NewPage(count, perPage, requested)
	items, err := ListContent(tx.Session(&gorm.Session{}), page.PerPage, page.Offset(), "created_at DESC, id DESC")
	if err != nil {
		return nil, page, err
	}

	return items, page, nil
}
