// Package realtime multiplexes Doshii realtime events over one shared
// websocket connection.
//
// A Hub owns a Registry of subscribers and a Conn. The connection is opened
// lazily by the first Subscribe and closed lazily by the heartbeat tick that
// observes no subscribers. Inbound frames are decoded by DecodeFrame and
// routed to callbacks by a Dispatcher, which recovers callback panics so one
// faulty subscriber never affects another.
//
//	hub := realtime.NewHub(realtime.HubConfig{URL: socketURL})
//	id, err := hub.Subscribe([]realtime.EventType{realtime.OrderCreated}, func(p json.RawMessage) {
//		fmt.Println(string(p))
//	})
//	...
//	_ = hub.Unsubscribe(id)
package realtime

import (
	"encoding/json"
	"slices"
)

// EventType is one tag from the closed vocabulary of realtime notifications.
type EventType string

// Realtime event types.
const (
	OrderCreated          EventType = "order_created"
	OrderUpdated          EventType = "order_updated"
	TransactionUpdated    EventType = "transaction_updated"
	BookingCreated        EventType = "booking_created"
	BookingUpdated        EventType = "booking_updated"
	CheckinCreated        EventType = "checkin_created"
	CheckinUpdated        EventType = "checkin_updated"
	CheckinDeleted        EventType = "checkin_deleted"
	MenuUpdated           EventType = "menu_updated"
	PointsRedemption      EventType = "points_redemption"
	RewardRedemption      EventType = "reward_redemption"
	TableCreated          EventType = "table_created"
	TableUpdated          EventType = "table_updated"
	TableRemoved          EventType = "table_removed"
	TableBulkUpdated      EventType = "table_bulk_updated"
	CardActivate          EventType = "card_activate"
	CardEnquiry           EventType = "card_enquiry"
	OrderPreprocess       EventType = "order_preprocess"
	LocationSubscription  EventType = "location_subscription"
	LocationHoursUpdated  EventType = "location_hours_updated"
	AppMenuUpdated        EventType = "app_menu_updated"
	AppMenuItemUpdated    EventType = "app_menu_item_updated"
	LoyaltyCheckinCreated EventType = "loyalty_checkin_created"
	LoyaltyCheckinUpdated EventType = "loyalty_checkin_updated"
	LoyaltyCheckinDeleted EventType = "loyalty_checkin_deleted"

	// Pong is reserved for keep-alive responses from the server.
	Pong EventType = "pong"
)

var eventTypes = []EventType{
	OrderCreated, OrderUpdated, TransactionUpdated,
	BookingCreated, BookingUpdated,
	CheckinCreated, CheckinUpdated, CheckinDeleted,
	MenuUpdated, PointsRedemption, RewardRedemption,
	TableCreated, TableUpdated, TableRemoved, TableBulkUpdated,
	CardActivate, CardEnquiry, OrderPreprocess,
	LocationSubscription, LocationHoursUpdated,
	AppMenuUpdated, AppMenuItemUpdated,
	LoyaltyCheckinCreated, LoyaltyCheckinUpdated, LoyaltyCheckinDeleted,
	Pong,
}

// EventTypes returns every known event type.
func EventTypes() []EventType {
	return slices.Clone(eventTypes)
}

// Valid reports whether e belongs to the event vocabulary.
func (e EventType) Valid() bool {
	return slices.Contains(eventTypes, e)
}

// String returns the wire tag.
func (e EventType) String() string {
	return string(e)
}

// Callback receives the raw JSON payload of one event. For Pong the payload
// is the whole keep-alive response frame.
type Callback func(payload json.RawMessage)
