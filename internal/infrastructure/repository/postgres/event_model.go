package postgres

import (
	"time"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/event"
)

type eventTableModel struct {
	EventKey     string    `db:"event_key"`
	Name         string    `db:"name"`
	ShortName    string    `db:"short_name"`
	EventCode    string    `db:"event_code"`
	EventType    int       `db:"event_type"`
	City         string    `db:"city"`
	StateProv    string    `db:"state_prov"`
	Country      string    `db:"country"`
	LocationName string    `db:"location_name"`
	Timezone     string    `db:"timezone"`
	StartAt      time.Time `db:"start_at"`
	EndAt        time.Time `db:"end_at"`
	Year         int       `db:"year"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m eventTableModel) toDomain() event.Event {
	return event.Event{
		EventKey:     m.EventKey,
		Name:         m.Name,
		ShortName:    m.ShortName,
		EventCode:    m.EventCode,
		EventType:    m.EventType,
		City:         m.City,
		StateProv:    m.StateProv,
		Country:      m.Country,
		LocationName: m.LocationName,
		Timezone:     m.Timezone,
		StartAt:      m.StartAt,
		EndAt:        m.EndAt,
		Year:         m.Year,
		IsActive:     m.IsActive,
	}
}

type eventInsertModel struct {
	EventKey     string    `db:"event_key"`
	Name         string    `db:"name"`
	ShortName    string    `db:"short_name"`
	EventCode    string    `db:"event_code"`
	EventType    int       `db:"event_type"`
	City         string    `db:"city"`
	StateProv    string    `db:"state_prov"`
	Country      string    `db:"country"`
	LocationName string    `db:"location_name"`
	Timezone     string    `db:"timezone"`
	StartAt      time.Time `db:"start_at"`
	EndAt        time.Time `db:"end_at"`
	Year         int       `db:"year"`
	IsActive     bool      `db:"is_active"`
}

func eventInsertModelFromDomain(item event.Event) eventInsertModel {
	return eventInsertModel{
		EventKey:     item.EventKey,
		Name:         item.Name,
		ShortName:    item.ShortName,
		EventCode:    item.EventCode,
		EventType:    item.EventType,
		City:         item.City,
		StateProv:    item.StateProv,
		Country:      item.Country,
		LocationName: item.LocationName,
		Timezone:     item.Timezone,
		StartAt:      item.StartAt,
		EndAt:        item.EndAt,
		Year:         item.Year,
		IsActive:     item.IsActive,
	}
}
