package domain

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"
)

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_MODBUS       = "modbus"
	ACTOR_ID_POLL         = "poll"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type ActorRef actor.PID

type ActorRequestMixIn struct {
	ReplyToRef *ActorRef
}

type ActorRequest interface {
	ReplyTo() *ActorRef
}

func (r ActorRequestMixIn) ReplyTo() *ActorRef {
	return r.ReplyToRef
}

type ActorResponseMixIn struct {
	ResponseError error
}

func (r ActorResponseMixIn) GetResponseError() error {
	return r.ResponseError
}

func (r ActorResponseMixIn) HasResponseError() bool {
	return r.ResponseError != nil
}

type ActorResponse interface {
	GetResponseError() error
	HasResponseError() bool
}

// Poll

type PollRequest struct {
	ActorRequestMixIn
	Now time.Time
}

type PollResponse struct {
	ActorResponseMixIn
	Frame Frame
}

type GetFrameRequest struct {
	ActorRequestMixIn
}

type GetFrameResponse struct {
	ActorResponseMixIn
	Frame *Frame
}

// Inputs

type SetPriceDataRequest struct {
	ActorRequestMixIn
	Prices PriceData
}

type SetForecastRequest struct {
	ActorRequestMixIn
	Forecast ForecastData
}

type GetControlOptionsRequest struct {
	ActorRequestMixIn
}

type GetControlOptionsResponse struct {
	ActorResponseMixIn
	Options ControlOptions
}

// Device info

type GetDeviceInfoRequest struct {
	ActorRequestMixIn
}

type GetDeviceInfoResponse struct {
	ActorResponseMixIn
	Model      string
	Family     felicity_modbus.ModelFamily
	Registers  []felicity_modbus.RegisterDescriptor
	Combined   []felicity_modbus.CombinedRegister
	SlaveId    uint8
	Connection string
	Options    ControlOptions
}

// MQTT

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors      []GenericSensor
	InputNumbers []GenericInputNumber
	Selects      []GenericSelect
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// Health

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
