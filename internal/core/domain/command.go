package domain

import "fmt"

// ControlRequest

type ControlRequest interface {
	ActorRequest
	ControlCommand() string
}

type ControlRequestMixIn struct {
	ActorRequestMixIn
}

func (r ControlRequestMixIn) ControlCommand() string {
	return fmt.Sprintf("%T", r)
}

// ControlResponse

type ControlResponse interface {
	ActorResponse
	ControlResponse() string
}

type ControlResponseMixIn struct {
	ActorResponseMixIn
}

func (r ControlResponseMixIn) ControlResponse() string {
	return fmt.Sprintf("%T", r)
}

// Control commands

// SetControlOptionRequest updates one control option from its entity id and raw payload.
type SetControlOptionRequest struct {
	ControlRequestMixIn
	OptionId string
	Payload  string
}

type SetControlOptionResponse struct {
	ControlResponseMixIn
	Options ControlOptions
	Changed bool
}

// ensure interface compliance
var _ ControlRequest = (*SetControlOptionRequest)(nil)
var _ ControlResponse = (*SetControlOptionResponse)(nil)
