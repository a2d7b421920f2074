package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/tint/internal/event"
	"github.com/bethropolis/tint/internal/logger"
	"github.com/bethropolis/tint/internal/plugin"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
)

// AutoSave periodically exports the image when it has unsaved edits.
type AutoSave struct {
	api plugin.EditorAPI

	mutex    sync.RWMutex // Protects the fields below
	enabled  bool
	interval time.Duration
	lastPath string

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and starts the auto-save loop if enabled.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	pluginName := p.Name()

	p.mutex.Lock()
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	}
	if intervalVal, ok := api.GetPluginConfigValue(pluginName, "interval"); ok {
		if d, ok := parseInterval(intervalVal); ok {
			p.interval = d
		} else {
			logger.Warnf("%s: Invalid 'interval' config (%v), using default (%v)", pluginName, intervalVal, p.interval)
		}
	}
	isEnabled := p.enabled
	interval := p.interval
	p.mutex.Unlock()

	api.SubscribeEvent(event.TypeImageSaved, p.onSaved)
	logger.Infof("%s initialized. Enabled: %v, Interval: %v", pluginName, isEnabled, interval)

	if isEnabled {
		p.stopChan = make(chan struct{})
		p.wg.Add(1)
		go p.saverLoop(interval)
	}
	return nil
}

// parseInterval accepts a duration string ("90s") or a number of seconds.
func parseInterval(v interface{}) (time.Duration, bool) {
	var d time.Duration
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return 0, false
		}
		d = parsed
	case int64:
		d = time.Duration(val) * time.Second
	case int:
		d = time.Duration(val) * time.Second
	case float64:
		d = time.Duration(val * float64(time.Second))
	default:
		return 0, false
	}
	return d, d > 0
}

// Shutdown signals the saver goroutine to stop and waits for it.
func (p *AutoSave) Shutdown() error {
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

// LastPath returns the file written by the most recent save, if any.
func (p *AutoSave) LastPath() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.lastPath
}

func (p *AutoSave) onSaved(e event.Event) bool {
	if data, ok := e.Data.(event.ImageSavedData); ok {
		p.mutex.Lock()
		p.lastPath = data.Path
		p.mutex.Unlock()
	}
	return false
}

func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.saveIfModified()
		case <-p.stopChan:
			return
		}
	}
}

// saveIfModified exports the image when it has unsaved edits.
func (p *AutoSave) saveIfModified() {
	if p.api == nil {
		logger.Errorf("%s: API is nil in saveIfModified!", p.Name())
		return
	}
	if p.api.CurrentImage() == nil || !p.api.IsImageModified() {
		logger.Debugf("%s: Image not modified, skipping auto-save.", p.Name())
		return
	}

	path, err := p.api.SaveImage()
	if err != nil {
		logger.Errorf("%s: Auto-save failed: %v", p.Name(), err)
		return
	}
	logger.Infof("%s: Auto-saved %s", p.Name(), path)
}
