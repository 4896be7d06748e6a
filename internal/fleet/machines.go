package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rackline/rackline/internal/channel"
	"github.com/rackline/rackline/internal/store"
)

// Machines composes the machine mirror with the mutation calls the
// control panel issues against it. Every method shapes parameters from
// the machine's system_id plus caller-supplied fields and issues exactly
// one call; business validation (RAID minimums, allocation state) is the
// server's job and is not re-checked here. Methods resolve with the raw
// server result and reject with the server's error payload unchanged.
//
// None of the storage mutations patch the mirror directly: the server
// notifies an update for the machine, and derived disk views recompute
// from that.
type Machines struct {
	store *store.Store
}

// NewMachines builds the machine store on the given channel.
func NewMachines(caller channel.Caller, logger *slog.Logger) *Machines {
	return &Machines{store: store.New(store.Config{
		ObjectType: "machine",
		PrimaryKey: "system_id",
		Caller:     caller,
		Logger:     logger,
	})}
}

// Store exposes the underlying mirror for listing, selection, and the
// active machine.
func (m *Machines) Store() *store.Store { return m.store }

// Action runs a lifecycle action (deploy, release, abort, delete, ...)
// against one machine.
func (m *Machines) Action(ctx context.Context, systemID, action string, extra map[string]any) (json.RawMessage, error) {
	return m.store.PerformAction(ctx, systemID, action, extra)
}

// CheckPower queries the machine's live power state and returns it.
func (m *Machines) CheckPower(ctx context.Context, systemID string) (string, error) {
	raw, err := m.store.Call(ctx, "check_power", map[string]any{"system_id": systemID})
	if err != nil {
		return "", err
	}
	var state string
	if err := json.Unmarshal(raw, &state); err != nil {
		return "", fmt.Errorf("fleet: decode power state: %w", err)
	}
	return state, nil
}

// SetBootDisk marks a physical disk as the machine's boot disk.
func (m *Machines) SetBootDisk(ctx context.Context, systemID string, blockID int64) error {
	_, err := m.store.Call(ctx, "set_boot_disk", map[string]any{
		"system_id": systemID,
		"block_id":  blockID,
	})
	return err
}

// CreatePartition adds a partition of the given size (bytes) to a disk,
// optionally formatting and mounting it in the same call.
func (m *Machines) CreatePartition(ctx context.Context, systemID string, blockID, size int64, fstype, mountPoint string) error {
	params := map[string]any{
		"system_id":      systemID,
		"block_id":       blockID,
		"partition_size": size,
	}
	if fstype != "" {
		params["fstype"] = fstype
		params["mount_point"] = mountPoint
	}
	_, err := m.store.Call(ctx, "create_partition", params)
	return err
}

// DeletePartition removes a partition.
func (m *Machines) DeletePartition(ctx context.Context, systemID string, partitionID int64) error {
	_, err := m.store.Call(ctx, "delete_partition", map[string]any{
		"system_id":    systemID,
		"partition_id": partitionID,
	})
	return err
}

// UpdateFilesystem formats, unformats, mounts, or unmounts a block
// device or partition. An empty fstype removes the filesystem; an empty
// mount point unmounts.
func (m *Machines) UpdateFilesystem(ctx context.Context, systemID string, blockID, partitionID int64, fstype, mountPoint string) error {
	params := map[string]any{
		"system_id":   systemID,
		"block_id":    blockID,
		"fstype":      fstype,
		"mount_point": mountPoint,
	}
	if partitionID != 0 {
		params["partition_id"] = partitionID
	}
	_, err := m.store.Call(ctx, "update_filesystem", params)
	return err
}

// UpdateDisk updates a block device's editable fields (name, size for
// virtual devices, and so on).
func (m *Machines) UpdateDisk(ctx context.Context, systemID string, blockID int64, fields map[string]any) error {
	params := map[string]any{
		"system_id": systemID,
		"block_id":  blockID,
	}
	for k, v := range fields {
		params[k] = v
	}
	_, err := m.store.Call(ctx, "update_disk", params)
	return err
}

// UpdateDiskTags replaces the tag set on one disk.
func (m *Machines) UpdateDiskTags(ctx context.Context, systemID string, blockID int64, tags []string) error {
	_, err := m.store.Call(ctx, "update_disk_tags", map[string]any{
		"system_id": systemID,
		"block_id":  blockID,
		"tags":      tags,
	})
	return err
}

// DeleteDisk removes a block device.
func (m *Machines) DeleteDisk(ctx context.Context, systemID string, blockID int64) error {
	_, err := m.store.Call(ctx, "delete_disk", map[string]any{
		"system_id": systemID,
		"block_id":  blockID,
	})
	return err
}

// CreateCacheSet creates a bcache cache set backed by either a whole
// disk (blockID) or a partition (partitionID); exactly one should be
// non-zero.
func (m *Machines) CreateCacheSet(ctx context.Context, systemID string, blockID, partitionID int64) error {
	params := map[string]any{"system_id": systemID}
	if partitionID != 0 {
		params["partition_id"] = partitionID
	} else {
		params["block_id"] = blockID
	}
	_, err := m.store.Call(ctx, "create_cache_set", params)
	return err
}

// DeleteCacheSet removes a cache set.
func (m *Machines) DeleteCacheSet(ctx context.Context, systemID string, cacheSetID int64) error {
	_, err := m.store.Call(ctx, "delete_cache_set", map[string]any{
		"system_id":    systemID,
		"cache_set_id": cacheSetID,
	})
	return err
}

// BcacheParams describes a new bcache device. The backing store is
// either BlockID or PartitionID, whichever is non-zero.
type BcacheParams struct {
	Name        string
	CacheSetID  int64
	CacheMode   string
	BlockID     int64
	PartitionID int64
	Fstype      string
	MountPoint  string
}

// CreateBcache builds a bcache device from a cache set and a backing
// disk or partition.
func (m *Machines) CreateBcache(ctx context.Context, systemID string, p BcacheParams) error {
	params := map[string]any{
		"system_id":  systemID,
		"name":       p.Name,
		"cache_set":  p.CacheSetID,
		"cache_mode": p.CacheMode,
	}
	if p.PartitionID != 0 {
		params["partition_id"] = p.PartitionID
	} else {
		params["block_id"] = p.BlockID
	}
	if p.Fstype != "" {
		params["fstype"] = p.Fstype
		params["mount_point"] = p.MountPoint
	}
	_, err := m.store.Call(ctx, "create_bcache", params)
	return err
}

// RAIDParams describes a new software RAID array.
type RAIDParams struct {
	Name              string
	Level             string // "raid-0", "raid-1", "raid-5", "raid-6", "raid-10"
	BlockIDs          []int64
	PartitionIDs      []int64
	SpareBlockIDs     []int64
	SparePartitionIDs []int64
	Fstype            string
	MountPoint        string
}

// CreateRAID builds a RAID array from the given disks and partitions.
func (m *Machines) CreateRAID(ctx context.Context, systemID string, p RAIDParams) error {
	params := map[string]any{
		"system_id":        systemID,
		"name":             p.Name,
		"level":            p.Level,
		"block_devices":    p.BlockIDs,
		"partitions":       p.PartitionIDs,
		"spare_devices":    p.SpareBlockIDs,
		"spare_partitions": p.SparePartitionIDs,
	}
	if p.Fstype != "" {
		params["fstype"] = p.Fstype
		params["mount_point"] = p.MountPoint
	}
	_, err := m.store.Call(ctx, "create_raid", params)
	return err
}

// CreateVolumeGroup builds an LVM volume group from disks and partitions.
func (m *Machines) CreateVolumeGroup(ctx context.Context, systemID, name string, blockIDs, partitionIDs []int64) error {
	_, err := m.store.Call(ctx, "create_volume_group", map[string]any{
		"system_id":     systemID,
		"name":          name,
		"block_devices": blockIDs,
		"partitions":    partitionIDs,
	})
	return err
}

// DeleteVolumeGroup removes a volume group.
func (m *Machines) DeleteVolumeGroup(ctx context.Context, systemID string, volumeGroupID int64) error {
	_, err := m.store.Call(ctx, "delete_volume_group", map[string]any{
		"system_id":       systemID,
		"volume_group_id": volumeGroupID,
	})
	return err
}

// CreateLogicalVolume carves a logical volume out of a volume group.
func (m *Machines) CreateLogicalVolume(ctx context.Context, systemID string, volumeGroupID int64, name string, size int64, fstype, mountPoint string) error {
	params := map[string]any{
		"system_id":       systemID,
		"volume_group_id": volumeGroupID,
		"name":            name,
		"size":            size,
	}
	if fstype != "" {
		params["fstype"] = fstype
		params["mount_point"] = mountPoint
	}
	_, err := m.store.Call(ctx, "create_logical_volume", params)
	return err
}

// CreatePhysicalInterface adds a physical NIC to the machine.
func (m *Machines) CreatePhysicalInterface(ctx context.Context, systemID, name, macAddress string, vlanID int64) error {
	_, err := m.store.Call(ctx, "create_physical", map[string]any{
		"system_id":   systemID,
		"name":        name,
		"mac_address": macAddress,
		"vlan":        vlanID,
	})
	return err
}

// CreateVLANInterface adds a VLAN interface on top of a parent NIC.
func (m *Machines) CreateVLANInterface(ctx context.Context, systemID string, parentID, vlanID int64) error {
	_, err := m.store.Call(ctx, "create_vlan", map[string]any{
		"system_id": systemID,
		"parent":    parentID,
		"vlan":      vlanID,
	})
	return err
}

// CreateBondInterface bonds several parent NICs into one interface.
func (m *Machines) CreateBondInterface(ctx context.Context, systemID, name string, parentIDs []int64, macAddress string) error {
	params := map[string]any{
		"system_id": systemID,
		"name":      name,
		"parents":   parentIDs,
	}
	if macAddress != "" {
		params["mac_address"] = macAddress
	}
	_, err := m.store.Call(ctx, "create_bond", params)
	return err
}

// UpdateInterface changes an interface's editable fields.
func (m *Machines) UpdateInterface(ctx context.Context, systemID string, interfaceID int64, fields map[string]any) error {
	params := map[string]any{
		"system_id":    systemID,
		"interface_id": interfaceID,
	}
	for k, v := range fields {
		params[k] = v
	}
	_, err := m.store.Call(ctx, "update_interface", params)
	return err
}

// DeleteInterface removes an interface.
func (m *Machines) DeleteInterface(ctx context.Context, systemID string, interfaceID int64) error {
	_, err := m.store.Call(ctx, "delete_interface", map[string]any{
		"system_id":    systemID,
		"interface_id": interfaceID,
	})
	return err
}

// LinkSubnet attaches an interface to a subnet with the given address
// mode ("auto", "static", "dhcp", "link_up"). A static mode may carry an
// explicit IP address.
func (m *Machines) LinkSubnet(ctx context.Context, systemID string, interfaceID, subnetID int64, mode, ipAddress string) error {
	params := map[string]any{
		"system_id":    systemID,
		"interface_id": interfaceID,
		"subnet":       subnetID,
		"mode":         mode,
	}
	if ipAddress != "" {
		params["ip_address"] = ipAddress
	}
	_, err := m.store.Call(ctx, "link_subnet", params)
	return err
}

// UnlinkSubnet removes one subnet link from an interface.
func (m *Machines) UnlinkSubnet(ctx context.Context, systemID string, interfaceID, linkID int64) error {
	_, err := m.store.Call(ctx, "unlink_subnet", map[string]any{
		"system_id":    systemID,
		"interface_id": interfaceID,
		"link_id":      linkID,
	})
	return err
}
