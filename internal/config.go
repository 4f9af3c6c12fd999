package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"workspace-chat/domain/chat"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	GRPCPort       int    `env:"GRPC_PORT,default=50051"`
	HTTPPort       int    `env:"HTTP_PORT,default=8080"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	DebugRoutes    bool   `env:"DEBUG_ROUTES,default=false"`

	JWTSecret  string        `env:"JWT_SECRET,required=true"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,default=24h"`
	AdminUsers string        `env:"ADMIN_USERS"`

	HeartbeatTimeout time.Duration `env:"HEARTBEAT_TIMEOUT,default=30s"`
	StatsInterval    time.Duration `env:"STATS_INTERVAL,default=1m"`
	GroupQueueSize   int           `env:"GROUP_QUEUE_SIZE,default=1024"`
	ReplayBufferSize int           `env:"REPLAY_BUFFER_SIZE,default=256"`
	PageSize         int           `env:"PAGE_SIZE,default=100"`

	OutboundQueue int           `env:"OUTBOUND_QUEUE,default=256"`
	RateLimit     float64       `env:"RATE_LIMIT,default=20"`
	RateBurst     int           `env:"RATE_BURST,default=40"`
	HistoryLimit  int           `env:"HISTORY_LIMIT,default=50"`
	RetryBase     time.Duration `env:"RETRY_BASE,default=50ms"`
	RetryAttempts int           `env:"RETRY_ATTEMPTS,default=4"`

	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
	Moderation      bool   `env:"MODERATION,default=true"`
}

// LoadConfig reads the environment, after merging the given .env files
// when they exist. Variables already set win over the files.
func LoadConfig(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, err
	}
	if config.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	return config, nil
}

func (c Config) Admins() []chat.UserID {
	var admins []chat.UserID
	for _, u := range strings.Split(c.AdminUsers, ",") {
		if u = strings.TrimSpace(u); u != "" {
			admins = append(admins, chat.UserID(u))
		}
	}
	return admins
}

func (c Config) GRPCAddress() string { return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort) }
func (c Config) HTTPAddress() string { return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort) }

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
