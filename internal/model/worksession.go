package model

import "time"

// PhotoMetadata describes an uploaded work photo.
type PhotoMetadata struct {
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	UploadedAt   time.Time `json:"uploadedAt"`
	TakenAt      time.Time `json:"takenAt"`
}

// WorkPhoto is a stored check-in/check-out photo.
type WorkPhoto struct {
	URL          string        `json:"url"`
	ThumbnailURL string        `json:"thumbnailUrl"`
	Metadata     PhotoMetadata `json:"metadata"`
}

// CheckIn opens a work session.
type CheckIn struct {
	Timestamp   time.Time    `json:"timestamp"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Photos      []WorkPhoto  `json:"photos"`
	Notes       string       `json:"notes,omitempty"`
}

// CheckOut closes a work session.
type CheckOut struct {
	Timestamp       time.Time    `json:"timestamp"`
	Location        string       `json:"location"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	Photos          []WorkPhoto  `json:"photos"`
	HoursWorked     float64      `json:"hoursWorked"`
	CompletionNotes string       `json:"completionNotes,omitempty"`
}

// StopCheck is the check-in or check-out record of one route stop.
type StopCheck struct {
	Timestamp   time.Time    `json:"timestamp"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Photos      []WorkPhoto  `json:"photos"`
	Notes       string       `json:"notes,omitempty"`
}

// LocationSession tracks one ordered stop of a route session. A stop
// advances strictly pending -> in_progress -> completed.
type LocationSession struct {
	LocationIndex   int        `json:"locationIndex"`
	LocationName    string     `json:"locationName"`
	LocationAddress string     `json:"locationAddress"`
	Status          StopStatus `json:"status"`
	CheckIn         *StopCheck `json:"checkIn,omitempty"`
	CheckOut        *StopCheck `json:"checkOut,omitempty"`
}

// RouteProgress aggregates stop completion across a route session.
// CompletedLocations never exceeds TotalLocations.
type RouteProgress struct {
	TotalLocations        int         `json:"totalLocations"`
	CompletedLocations    int         `json:"completedLocations"`
	CurrentLocationIndex  *int        `json:"currentLocationIndex,omitempty"`
	NextScheduledLocation *int        `json:"nextScheduledLocation,omitempty"`
	RouteStatus           RouteStatus `json:"routeStatus"`
}

// WorkSession is one instance of performed work bounded by a check-in
// and a check-out. Route sessions additionally carry per-stop state.
type WorkSession struct {
	ID               string            `json:"id"`
	Contract         Ref               `json:"contract"`
	Worker           Ref               `json:"worker"`
	Company          Ref               `json:"company"`
	Job              Ref               `json:"job"`
	WorkType         WorkType          `json:"workType"`
	WorkDate         time.Time         `json:"workDate"`
	CheckIn          *CheckIn          `json:"checkIn,omitempty"`
	CheckOut         *CheckOut         `json:"checkOut,omitempty"`
	LocationSessions []LocationSession `json:"locationSessions,omitempty"`
	RouteProgress    *RouteProgress    `json:"routeProgress,omitempty"`
	CalculatedAmount float64           `json:"calculatedAmount"`
	Status           SessionStatus     `json:"status"`
	PaymentStatus    PaymentStatus     `json:"paymentStatus"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Party resolves which side of the session the user is on.
func (s *WorkSession) Party(userID string) (Role, bool) {
	if s.Worker.Is(userID) {
		return RoleWorker, true
	}
	if s.Company.Is(userID) {
		return RoleCompany, true
	}
	return "", false
}

// CheckInRequest opens a single-location session.
type CheckInRequest struct {
	Location    string       `json:"location" validate:"required,max=200"`
	Coordinates *Coordinates `json:"coordinates"`
	Photos      []string     `json:"photos" validate:"omitempty,max=10"`
	Notes       string       `json:"notes" validate:"omitempty,max=1000"`
}

// CheckOutRequest closes a single-location session.
type CheckOutRequest struct {
	Location        string       `json:"location" validate:"required,max=200"`
	Coordinates     *Coordinates `json:"coordinates"`
	Photos          []string     `json:"photos" validate:"omitempty,max=10"`
	HoursWorked     float64      `json:"hoursWorked" validate:"required,gt=0"`
	CompletionNotes string       `json:"completionNotes" validate:"omitempty,max=1000"`
}

// CreateRouteSessionRequest starts a route traversal for a contract.
type CreateRouteSessionRequest struct {
	JobID string `json:"jobId" validate:"required"`
}

// StopCheckRequest is the payload for a per-stop check-in/check-out.
type StopCheckRequest struct {
	Coordinates *Coordinates `json:"coordinates"`
	Photos      []string     `json:"photos" validate:"omitempty,max=10"`
	Notes       string       `json:"notes" validate:"omitempty,max=1000"`
}

// NextStop tells the worker where to go after a stop check-out.
type NextStop struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RouteCheckOutResult is returned by a stop check-out.
type RouteCheckOutResult struct {
	Session         *WorkSession `json:"session"`
	NextLocation    *NextStop    `json:"nextLocation,omitempty"`
	IsRouteComplete bool         `json:"isRouteComplete"`
}

// SessionFilters narrows session listings.
type SessionFilters struct {
	ContractID string
	WorkerID   string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// WorkStats are dashboard aggregates over a session listing.
type WorkStats struct {
	TotalSessions     int     `json:"totalSessions"`
	CompletedSessions int     `json:"completedSessions"`
	ConfirmedSessions int     `json:"confirmedSessions"`
	TotalHours        float64 `json:"totalHours"`
	TotalAmount       float64 `json:"totalAmount"`
}
