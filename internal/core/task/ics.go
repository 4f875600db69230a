package task

import (
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

const icsProductID = "-//todos//Task Export//EN"

// WriteICS encodes tasks as an iCalendar document with one VTODO per task.
func WriteICS(w io.Writer, tasks []Task, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)

	for _, t := range tasks {
		cal.Children = append(cal.Children, todoComponent(t, now))
	}

	return ical.NewEncoder(w).Encode(cal)
}

func todoComponent(t Task, now time.Time) *ical.Component {
	todo := ical.NewComponent(ical.CompToDo)

	uid := strings.TrimSpace(t.ID)
	if uid == "" {
		uid = now.UTC().Format("20060102T150405.000000000")
	}
	todo.Props.SetText(ical.PropUID, uid+"@todos")
	todo.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	todo.Props.SetText(ical.PropSummary, t.Title)

	if t.Description != "" {
		todo.Props.SetText(ical.PropDescription, t.Description)
	}
	if !t.DueDate.IsZero() {
		todo.Props.SetDateTime(ical.PropDue, t.DueDate.UTC())
	}
	if !t.CreatedAt.IsZero() {
		todo.Props.SetDateTime(ical.PropCreated, t.CreatedAt.UTC())
	}

	priority := ical.NewProp(ical.PropPriority)
	priority.Value = icsPriority(t.Priority)
	todo.Props.Set(priority)

	if t.Completed() {
		todo.Props.SetText(ical.PropStatus, "COMPLETED")
	} else {
		todo.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
	}

	return todo
}

// icsPriority maps priorities onto the RFC 5545 1-9 scale.
func icsPriority(p Priority) string {
	switch p {
	case PriorityHigh:
		return "1"
	case PriorityLow:
		return "9"
	default:
		return "5"
	}
}
