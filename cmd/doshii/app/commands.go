package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/doshii"
	"github.com/agentstation/doshii/internal/cmd/output"
	"github.com/agentstation/doshii/pkg/realtime"
)

// NewListenCommand streams realtime events until interrupted.
func (a *App) NewListenCommand() *cobra.Command {
	var events []string
	cmd := &cobra.Command{
		Use:     "listen",
		GroupID: "realtime",
		Short:   "Stream realtime events from the partner socket",
		Long: `Listen subscribes to realtime events and prints each one as a JSON line
until interrupted. Without --events every event except pong is streamed.`,
		Example: `  doshii listen --events order_created,order_updated
  doshii listen --sandbox`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types, err := parseEvents(events)
			if err != nil {
				return err
			}
			client, err := a.Client()
			if err != nil {
				return err
			}

			var mu sync.Mutex
			enc := json.NewEncoder(a.stdout)
			id, err := client.Subscribe(types, func(payload json.RawMessage) {
				mu.Lock()
				defer mu.Unlock()
				_ = enc.Encode(eventLine{ReceivedAt: time.Now().UTC(), Payload: payload})
			})
			if err != nil {
				return err
			}
			a.logger.Info().Int("events", len(types)).Msg("Listening for realtime events")

			<-cmd.Context().Done()
			_ = client.Unsubscribe(id)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&events, "events", nil, "comma separated events to listen for")
	return cmd
}

// eventLine is one streamed realtime event.
type eventLine struct {
	ReceivedAt time.Time       `json:"receivedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// parseEvents validates event names; none means every event but pong.
func parseEvents(names []string) ([]realtime.EventType, error) {
	if len(names) == 0 {
		var all []realtime.EventType
		for _, e := range realtime.EventTypes() {
			if e != realtime.Pong {
				all = append(all, e)
			}
		}
		return all, nil
	}
	out := make([]realtime.EventType, 0, len(names))
	for _, name := range names {
		e := realtime.EventType(strings.TrimSpace(name))
		if !e.Valid() {
			return nil, fmt.Errorf("unknown event %q", name)
		}
		out = append(out, e)
	}
	return out, nil
}

// NewDevicesCommand lists the devices registered for the application.
func (a *App) NewDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "devices",
		GroupID: "resources",
		Short:   "List registered devices",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			devices, err := client.Devices.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(deviceTable(devices))
		},
	}
}

// NewLocationsCommand lists the locations connected to the application.
func (a *App) NewLocationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "locations",
		GroupID: "resources",
		Short:   "List connected locations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			locations, err := client.Locations.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(locationTable(locations))
		},
	}
}

// NewWebhooksCommand lists the registered webhooks.
func (a *App) NewWebhooksCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "webhooks",
		GroupID: "resources",
		Short:   "List registered webhooks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			hooks, err := client.Webhooks.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(webhookTable(hooks))
		},
	}
}

// NewRejectionCodesCommand lists rejection codes, or explains one.
func (a *App) NewRejectionCodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rejection-codes [code]",
		GroupID: "resources",
		Short:   "List order and transaction rejection codes",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			if len(args) == 1 {
				code = args[0]
			}
			client, err := a.Client()
			if err != nil {
				return err
			}
			codes, err := client.RejectionCodes(cmd.Context(), code)
			if err != nil {
				return err
			}
			return a.render(rejectionTable(codes))
		},
	}
}

// NewVersionCommand prints build information.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "doshii %s\n  commit: %s\n  built:  %s by %s\n",
				a.version, a.commit, a.date, a.builtBy)
			return err
		},
	}
}

type deviceTable []doshii.Device

func (d deviceTable) Table() output.Data {
	t := output.Data{Headers: []string{"ID", "Name", "Ref", "Channels", "Locations", "Updated"}}
	for _, dev := range d {
		t.Rows = append(t.Rows, []string{
			dev.DoshiiID,
			dev.Name,
			dev.Ref,
			strings.Join(dev.Channels, ", "),
			strings.Join(dev.LocationIDs, ", "),
			formatTime(dev.UpdatedAt.Time),
		})
	}
	return t
}

type locationTable []doshii.Location

func (l locationTable) Table() output.Data {
	t := output.Data{Headers: []string{"ID", "Name", "City", "Timezone", "Organisation"}}
	for _, loc := range l {
		var org string
		if loc.Organisation != nil {
			org = loc.Organisation.Name
		}
		t.Rows = append(t.Rows, []string{loc.ID, loc.Name, loc.City, loc.Timezone, org})
	}
	return t
}

type webhookTable []doshii.Webhook

func (w webhookTable) Table() output.Data {
	t := output.Data{Headers: []string{"Event", "URL", "Updated"}}
	for _, hook := range w {
		var updated string
		if hook.UpdatedAt != nil {
			updated = formatTime(hook.UpdatedAt.Time)
		}
		t.Rows = append(t.Rows, []string{string(hook.Event), hook.WebhookURL, updated})
	}
	return t
}

type rejectionTable []doshii.RejectionCode

func (r rejectionTable) Table() output.Data {
	t := output.Data{Headers: []string{"Code", "Entity", "Description"}}
	for _, rc := range r {
		t.Rows = append(t.Rows, []string{rc.Code, rc.Entity, rc.Description})
	}
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
