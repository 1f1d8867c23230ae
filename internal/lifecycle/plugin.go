package lifecycle

import (
	"context"
	"fmt"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
)

// Plugin verifies notices for one delivery channel. Each channel (gateway
// voice/text, email, carrier-direct SMS) supplies its own correlation logic
// against whatever evidence tables that channel produces.
type Plugin interface {
	// Name is the plugin's unique identifier.
	Name() string
	// DisplayName is the operator-facing label.
	DisplayName() string
	// Description explains what the channel covers.
	Description() string
	// DeliveryMethodIDs lists the delivery method codes this plugin handles.
	DeliveryMethodIDs() []int
	// Enabled reports whether the plugin should participate in dispatch.
	Enabled() bool
	// CanVerify reports whether this plugin can verify the given notice.
	CanVerify(notice *models.Notice) bool
	// Verify fills in the submitted/verified/delivered stages on result.
	Verify(ctx context.Context, notice *models.Notice, result *Result) error
}

// Registry routes verification requests to the registered channel plugins.
// Dispatch is deterministic: a direct delivery-method lookup first, then a
// scan over enabled plugins in registration order. The first plugin to claim
// a delivery method keeps it.
type Registry struct {
	plugins     map[string]Plugin
	order       []string
	deliveryMap map[int]Plugin
}

// NewRegistry returns an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins:     make(map[string]Plugin),
		deliveryMap: make(map[int]Plugin),
	}
}

// Register adds a plugin. Duplicate names are rejected.
func (r *Registry) Register(plugin Plugin) error {
	name := plugin.Name()
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin %q is already registered", name)
	}

	r.plugins[name] = plugin
	r.order = append(r.order, name)
	for _, methodID := range plugin.DeliveryMethodIDs() {
		if _, claimed := r.deliveryMap[methodID]; !claimed {
			r.deliveryMap[methodID] = plugin
		}
	}
	return nil
}

// Get returns the plugin with the given name, or nil.
func (r *Registry) Get(name string) Plugin {
	return r.plugins[name]
}

// Has reports whether a plugin with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.plugins[name]
	return ok
}

// All returns the registered plugins in registration order.
func (r *Registry) All() []Plugin {
	plugins := make([]Plugin, 0, len(r.order))
	for _, name := range r.order {
		plugins = append(plugins, r.plugins[name])
	}
	return plugins
}

// Enabled returns the enabled plugins in registration order.
func (r *Registry) Enabled() []Plugin {
	var enabled []Plugin
	for _, plugin := range r.All() {
		if plugin.Enabled() {
			enabled = append(enabled, plugin)
		}
	}
	return enabled
}

// ByDeliveryMethod returns the plugin claiming the given method code, or nil.
func (r *Registry) ByDeliveryMethod(methodID int) Plugin {
	return r.deliveryMap[methodID]
}

// FindPluginForNotice resolves the plugin to verify a notice with, or nil
// when no plugin claims it.
func (r *Registry) FindPluginForNotice(notice *models.Notice) Plugin {
	if plugin := r.ByDeliveryMethod(notice.DeliveryMethodID); plugin != nil && plugin.CanVerify(notice) {
		return plugin
	}
	for _, plugin := range r.Enabled() {
		if plugin.CanVerify(notice) {
			return plugin
		}
	}
	return nil
}
