package fleet

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/rackline/rackline/internal/channel"
	"github.com/rackline/rackline/internal/store"
)

// Devices mirrors the device collection. Devices support creation (they
// are registered by hand, not enlisted) and lifecycle actions.
type Devices struct {
	store *store.Store
}

// NewDevices builds the device store on the given channel.
func NewDevices(caller channel.Caller, logger *slog.Logger) *Devices {
	return &Devices{store: store.New(store.Config{
		ObjectType: "device",
		PrimaryKey: "system_id",
		Caller:     caller,
		Logger:     logger,
	})}
}

// Store exposes the underlying mirror.
func (d *Devices) Store() *store.Store { return d.store }

// Create registers a new device from its hostname, MAC addresses, and
// IP assignment fields.
func (d *Devices) Create(ctx context.Context, fields map[string]any) (*store.Item, error) {
	return d.store.Create(ctx, fields)
}

// Action runs a lifecycle action against one device.
func (d *Devices) Action(ctx context.Context, systemID, action string, extra map[string]any) (json.RawMessage, error) {
	return d.store.PerformAction(ctx, systemID, action, extra)
}

// Controllers mirrors the rack/region controller collection. Read-only
// from the panel's side.
type Controllers struct {
	store *store.Store
}

// NewControllers builds the controller store on the given channel.
func NewControllers(caller channel.Caller, logger *slog.Logger) *Controllers {
	return &Controllers{store: store.New(store.Config{
		ObjectType: "controller",
		PrimaryKey: "system_id",
		Caller:     caller,
		Logger:     logger,
	})}
}

// Store exposes the underlying mirror.
func (c *Controllers) Store() *store.Store { return c.store }

// Switches mirrors the switch collection. Switches are node-shaped
// (keyed by system_id) but carry no lifecycle actions from the panel.
type Switches struct {
	store *store.Store
}

// NewSwitches builds the switch store on the given channel.
func NewSwitches(caller channel.Caller, logger *slog.Logger) *Switches {
	return &Switches{store: store.New(store.Config{
		ObjectType: "switch",
		PrimaryKey: "system_id",
		Caller:     caller,
		Logger:     logger,
	})}
}

// Store exposes the underlying mirror.
func (s *Switches) Store() *store.Store { return s.store }

// Subnets mirrors the subnet collection, keyed by numeric id.
type Subnets struct {
	store *store.Store
}

// NewSubnets builds the subnet store on the given channel.
func NewSubnets(caller channel.Caller, logger *slog.Logger) *Subnets {
	return &Subnets{store: store.New(store.Config{
		ObjectType: "subnet",
		Caller:     caller,
		Logger:     logger,
	})}
}

// Store exposes the underlying mirror.
func (s *Subnets) Store() *store.Store { return s.store }

// BootImages mirrors the boot image collection, keyed by numeric id.
type BootImages struct {
	store *store.Store
}

// NewBootImages builds the boot image store on the given channel.
func NewBootImages(caller channel.Caller, logger *slog.Logger) *BootImages {
	return &BootImages{store: store.New(store.Config{
		ObjectType: "bootresource",
		Caller:     caller,
		Logger:     logger,
	})}
}

// Store exposes the underlying mirror.
func (b *BootImages) Store() *store.Store { return b.store }

// NotifyRegistrar is the subset of the channel connection the fleet
// needs to subscribe its stores to push notifications.
type NotifyRegistrar interface {
	RegisterNotifier(objectType string, fn channel.NotifyFunc)
}

// Fleet bundles every mirrored collection the panel works with.
type Fleet struct {
	Machines    *Machines
	Devices     *Devices
	Controllers *Controllers
	Switches    *Switches
	Subnets     *Subnets
	BootImages  *BootImages
}

// New builds all collection stores on one channel.
func New(caller channel.Caller, logger *slog.Logger) *Fleet {
	return &Fleet{
		Machines:    NewMachines(caller, logger),
		Devices:     NewDevices(caller, logger),
		Controllers: NewControllers(caller, logger),
		Switches:    NewSwitches(caller, logger),
		Subnets:     NewSubnets(caller, logger),
		BootImages:  NewBootImages(caller, logger),
	}
}

// Stores returns every underlying mirror in a stable order.
func (f *Fleet) Stores() []*store.Store {
	return []*store.Store{
		f.Machines.Store(),
		f.Devices.Store(),
		f.Controllers.Store(),
		f.Switches.Store(),
		f.Subnets.Store(),
		f.BootImages.Store(),
	}
}

// Register subscribes every store to its object type's notifications.
// Must happen before Load so no push is missed between the initial list
// and the first notify.
func (f *Fleet) Register(reg NotifyRegistrar) {
	for _, st := range f.Stores() {
		reg.RegisterNotifier(st.ObjectType(), st.HandleNotify)
	}
}

// Load performs the initial list call for every store. The first
// failure aborts; the panel cannot run on a partial mirror.
func (f *Fleet) Load(ctx context.Context) error {
	for _, st := range f.Stores() {
		if err := st.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}
