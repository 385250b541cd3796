package model

import "time"

// Compensation is the contracted pay, snapshotted from the job budget
// at contract creation time.
type Compensation struct {
	Amount          float64          `json:"amount"`
	Currency        string           `json:"currency"`
	Type            CompensationType `json:"type"`
	PaymentSchedule PaymentSchedule  `json:"paymentSchedule"`
}

// Schedule is the contracted work window.
type Schedule struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	WorkHours  string    `json:"workHours"`
	DaysOfWeek []string  `json:"daysOfWeek"`
	TotalHours int       `json:"totalHours"`
}

// Terms are the agreed contract terms.
type Terms struct {
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Compensation     Compensation `json:"compensation"`
	Schedule         Schedule     `json:"schedule"`
	Deliverables     []string     `json:"deliverables"`
	Responsibilities []string     `json:"responsibilities"`
}

// Penalties are fractional deductions applied on breach.
type Penalties struct {
	LateCompletion   float64 `json:"lateCompletion,omitempty"`
	EarlyTermination float64 `json:"earlyTermination,omitempty"`
}

// Clauses are the legal clauses attached to every contract.
type Clauses struct {
	TerminationNotice    int       `json:"terminationNotice"`
	Confidentiality      bool      `json:"confidentiality"`
	IntellectualProperty string    `json:"intellectualProperty"`
	Penalties            Penalties `json:"penalties"`
}

// Signature records one party's signing act.
type Signature struct {
	Signed   bool       `json:"signed"`
	SignedAt *time.Time `json:"signedAt,omitempty"`
	IP       string     `json:"ip,omitempty"`
}

// Signatures holds both parties. The contract activates exactly when
// both Signed flags are true.
type Signatures struct {
	Worker  Signature `json:"worker"`
	Company Signature `json:"company"`
}

// Contract is the bilateral agreement derived from a job once a worker
// is selected. Exactly one contract exists per job.
type Contract struct {
	ID          string         `json:"id"`
	Job         Ref            `json:"job"`
	Worker      Ref            `json:"worker"`
	Company     Ref            `json:"company"`
	Terms       Terms          `json:"terms"`
	Clauses     Clauses        `json:"clauses"`
	Status      ContractStatus `json:"status"`
	Signatures  Signatures     `json:"signatures"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	ActivatedAt *time.Time     `json:"activatedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

// Party resolves which side of the contract the user is on.
func (c *Contract) Party(userID string) (Role, bool) {
	if c.Worker.Is(userID) {
		return RoleWorker, true
	}
	if c.Company.Is(userID) {
		return RoleCompany, true
	}
	return "", false
}

// FullySigned reports whether both parties have signed.
func (c *Contract) FullySigned() bool {
	return c.Signatures.Worker.Signed && c.Signatures.Company.Signed
}

// SignContractRequest carries optional signing metadata; the signer
// identity and role come from the authenticated token.
type SignContractRequest struct {
	Accept bool `json:"accept"`
}

// UpdateContractStatusRequest requests a status transition.
type UpdateContractStatusRequest struct {
	Status ContractStatus `json:"status" validate:"required,oneof=completed cancelled disputed"`
}
