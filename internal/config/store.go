package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const DefaultOpeningMessage = "Chat iniciado"

// StoreConfig holds runtime switches of the data layer that may change
// without a restart.
type StoreConfig struct {
	Orders OrdersConfig `mapstructure:"orders"`
	Chat   ChatConfig   `mapstructure:"chat"`
}

type OrdersConfig struct {
	EnforceTransitions bool `mapstructure:"enforceTransitions"`
}

type ChatConfig struct {
	OpeningMessage string `mapstructure:"openingMessage"`
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Orders: OrdersConfig{EnforceTransitions: false},
		Chat:   ChatConfig{OpeningMessage: DefaultOpeningMessage},
	}
}

type StoreConfigHolder struct {
	current atomic.Value // holds StoreConfig
}

// NewStaticStoreConfigHolder returns a holder that never reloads.
func NewStaticStoreConfigHolder(cfg StoreConfig) *StoreConfigHolder {
	holder := &StoreConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewStoreConfigHolder(log *zap.Logger) (*StoreConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("store-config")

	v := viper.New()
	v.SetConfigName("hostelhub")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/hostelhub")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HOSTELHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultStoreConfig()
	v.SetDefault("store.orders.enforceTransitions", defaults.Orders.EnforceTransitions)
	v.SetDefault("store.chat.openingMessage", defaults.Chat.OpeningMessage)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	var cfg StoreConfig
	if err := v.UnmarshalKey("store", &cfg); err != nil {
		return nil, err
	}
	if err := validateStoreConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticStoreConfigHolder(cfg)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated StoreConfig
		if err := v.UnmarshalKey("store", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validateStoreConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *StoreConfigHolder) Get() StoreConfig {
	if h == nil {
		return DefaultStoreConfig()
	}
	return h.current.Load().(StoreConfig)
}

// EnforceOrderTransitions reports whether order status changes must follow
// the order state graph.
func (h *StoreConfigHolder) EnforceOrderTransitions() bool {
	return h.Get().Orders.EnforceTransitions
}

// OpeningMessage is the last message text of a freshly created chat thread.
func (h *StoreConfigHolder) OpeningMessage() string {
	return h.Get().Chat.OpeningMessage
}

func validateStoreConfig(cfg StoreConfig) error {
	if strings.TrimSpace(cfg.Chat.OpeningMessage) == "" {
		return errors.New("store.chat.openingMessage cannot be empty")
	}
	return nil
}
