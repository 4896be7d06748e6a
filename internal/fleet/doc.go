// Package fleet provides the typed stores for each Foundry collection:
// machines, devices, controllers, switches, subnets, and boot images.
//
// Each store composes the generic mirror from internal/store with a
// fixed object type and primary-key field, and adds the domain mutation
// calls that collection supports. The mutation methods are deliberately
// thin: they shape a parameter map from the item's primary key plus the
// caller's fields, issue one call over the channel, and pass the
// server's result or error payload through untouched. Input validation
// is the caller's responsibility (forms validate before dispatch; the
// server is the authority on business rules).
package fleet
