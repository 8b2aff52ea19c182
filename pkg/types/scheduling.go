// Package types defines the request and result payloads exchanged with
// the platform API. The client performs no computation on these; all
// scheduling and routing logic runs server-side.
package types

import "time"

// Appointment is a scheduled home visit.
type Appointment struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patientId"`
	ClientName string    `json:"clientName,omitempty"`
	Service    string    `json:"service"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	Address    string    `json:"address,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// AppointmentList wraps the appointments listing response.
type AppointmentList struct {
	Appointments []Appointment `json:"appointments"`
}

// ScheduleAppointmentRequest books a visit. IdempotencyKey is filled in
// by the client when the caller leaves it empty.
type ScheduleAppointmentRequest struct {
	PatientID      string    `json:"patientId"`
	Service        string    `json:"service"`
	Start          time.Time `json:"start"`
	Notes          string    `json:"notes,omitempty"`
	IdempotencyKey string    `json:"idempotencyKey,omitempty"`
}

// RouteRequest asks the platform to compute the visit order for a
// doctor's day.
type RouteRequest struct {
	Date     string `json:"date"`
	DoctorID string `json:"doctorId"`
}

// RouteStop is one visit in a computed route.
type RouteStop struct {
	AppointmentID string    `json:"appointmentId"`
	Address       string    `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Arrival       time.Time `json:"arrival"`
	DriveMinutes  int       `json:"driveMinutes"`
}

// RouteResult is the server-computed route for a doctor's day.
type RouteResult struct {
	Stops             []RouteStop `json:"stops"`
	TotalDriveMinutes int         `json:"totalDriveMinutes"`
}
