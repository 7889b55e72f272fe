// Package checkout implements the multi-step checkout form as an explicit
// state machine: contact → delivery → payment, then submit.
package checkout

import (
	"fmt"
	"strings"
)

// Step identifies the active checkout step.
type Step int

const (
	StepContact Step = iota + 1
	StepDelivery
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Delivery time slots and payment methods accepted by the store.
var (
	deliveryTimes = map[string]bool{
		"morning":   true,
		"afternoon": true,
		"evening":   true,
	}
	paymentMethods = map[string]bool{
		"cash":            true,
		"mobile-transfer": true,
		"card":            true,
	}
)

// Form carries everything collected across the three steps.
type Form struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Municipality  string `json:"municipality"`
	DeliveryTime  string `json:"delivery_time"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
	SaveProfile   bool   `json:"save_profile"`
}

// ValidationError blocks a step transition and carries a user-visible
// message for the offending field.
type ValidationError struct {
	Step    Step
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Checkout tracks the active step and the form for one session.
type Checkout struct {
	step Step
	form Form
}

func New() *Checkout {
	return &Checkout{step: StepContact}
}

func (c *Checkout) Step() Step {
	return c.step
}

func (c *Checkout) Form() Form {
	return c.form
}

// Update merges new form values. Field edits never move the step.
func (c *Checkout) Update(f Form) {
	c.form = f
}

// Next advances to the following step if the active step validates.
func (c *Checkout) Next() error {
	if err := validateStep(c.step, c.form); err != nil {
		return err
	}
	if c.step < StepPayment {
		c.step++
	}
	return nil
}

// Back returns to the previous step unconditionally; at the first step it
// is a no-op.
func (c *Checkout) Back() {
	if c.step > StepContact {
		c.step--
	}
}

// Validate re-checks all three steps, as done right before submission.
// The first failing step is reported.
func (c *Checkout) Validate() error {
	for _, s := range []Step{StepContact, StepDelivery, StepPayment} {
		if err := validateStep(s, c.form); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns the checkout to a blank contact step, used after a
// successful submission.
func (c *Checkout) Reset() {
	c.step = StepContact
	c.form = Form{}
}

func validateStep(step Step, f Form) error {
	switch step {
	case StepContact:
		if strings.TrimSpace(f.FullName) == "" {
			return &ValidationError{Step: step, Field: "full_name", Message: "full name is required"}
		}
		if len(strings.TrimSpace(f.Phone)) < 8 {
			return &ValidationError{Step: step, Field: "phone", Message: "phone must have at least 8 digits"}
		}
	case StepDelivery:
		if f.Municipality == "" {
			return &ValidationError{Step: step, Field: "municipality", Message: "municipality is required"}
		}
		if strings.TrimSpace(f.Address) == "" {
			return &ValidationError{Step: step, Field: "address", Message: "delivery address is required"}
		}
		if !deliveryTimes[f.DeliveryTime] {
			return &ValidationError{Step: step, Field: "delivery_time", Message: "select a delivery time slot"}
		}
	case StepPayment:
		if !paymentMethods[f.PaymentMethod] {
			return &ValidationError{Step: step, Field: "payment_method", Message: "select a payment method"}
		}
	}
	return nil
}
