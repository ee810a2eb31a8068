package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go"

	"github.com/mindhaven/mindhaven/internal/api"
	"github.com/mindhaven/mindhaven/internal/email"
	"github.com/mindhaven/mindhaven/internal/escalation"
	"github.com/mindhaven/mindhaven/internal/exercise"
	"github.com/mindhaven/mindhaven/internal/flow"
	"github.com/mindhaven/mindhaven/internal/genai"
	"github.com/mindhaven/mindhaven/internal/models"
	"github.com/mindhaven/mindhaven/internal/parts"
	"github.com/mindhaven/mindhaven/internal/store"
	"github.com/mindhaven/mindhaven/internal/util"
	"github.com/mindhaven/mindhaven/internal/voicecall"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for MindHaven state data
	DefaultStateDir = "/var/lib/mindhaven"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "mindhaven.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	genaiClient := buildGenAIClient(flags)
	orchestrator := buildOrchestrator(st)
	manager, err := buildSessionManager(flags, genaiClient, st)
	if err != nil {
		slog.Error("Failed to initialize session manager", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(manager, genaiClient, orchestrator, st, *flags.apiAddr)

	slog.Info("Bootstrapping MindHaven with configured modules",
		"part_scheme", *flags.partScheme,
		"session_flow", *flags.sessionFlow,
		"api_addr", *flags.apiAddr)
	if err := server.Run(); err != nil {
		slog.Error("MindHaven failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("MindHaven exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	StateDir    string
	OpenAIKey   string
	APIAddr     string
	PartScheme  string
	SessionFlow string
}

// Flags holds command line flag values
type Flags struct {
	stateDir    *string
	dbDSN       *string
	openaiKey   *string
	apiAddr     *string
	partScheme  *string
	sessionFlow *string
}

// initializeLogger sets up structured logging with the level from
// MINDHAVEN_LOG_LEVEL (debug|info|warn|error, default info).
func initializeLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("MINDHAVEN_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    os.Getenv("MINDHAVEN_STATE_DIR"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		APIAddr:     os.Getenv("API_ADDR"),
		PartScheme:  os.Getenv("PART_SCHEME"),
		SessionFlow: os.Getenv("SESSION_FLOW"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No MINDHAVEN_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}
	if config.PartScheme == "" {
		config.PartScheme = string(models.SchemeIFS)
	}
	if config.SessionFlow == "" {
		config.SessionFlow = string(models.FlowTypeStatic)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"MINDHAVEN_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"PART_SCHEME", config.PartScheme,
		"SESSION_FLOW", config.SessionFlow)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:    flag.String("state-dir", config.StateDir, "state directory for MindHaven data (overrides $MINDHAVEN_STATE_DIR)"),
		dbDSN:       flag.String("db-dsn", config.DatabaseURL, "database DSN (overrides $DATABASE_URL)"),
		openaiKey:   flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		apiAddr:     flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		partScheme:  flag.String("part-scheme", config.PartScheme, "part classification scheme: ifs or emotion (overrides $PART_SCHEME)"),
		sessionFlow: flag.String("session-flow", config.SessionFlow, "session flow variant: static or genai (overrides $SESSION_FLOW)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"partScheme", *flags.partScheme,
		"sessionFlow", *flags.sessionFlow)

	return flags
}

// buildStore selects the store backend from the DSN: postgres URLs use the
// PostgreSQL store, anything else is treated as a SQLite file path.
func buildStore(flags Flags) (store.Store, error) {
	dsn := *flags.dbDSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return store.NewPostgresStore(store.WithDSN(dsn))
	}
	return store.NewSQLiteStore(store.WithDSN(dsn))
}

// buildGenAIClient constructs the language-model collaborator, degrading
// to a disabled client when no API key is configured.
func buildGenAIClient(flags Flags) genai.ClientInterface {
	client, err := genai.NewClient(genai.WithAPIKey(*flags.openaiKey))
	if err != nil {
		slog.Warn("GenAI client unavailable, chat generation disabled", "error", err)
		return disabledGenAI{}
	}
	return client
}

// buildOrchestrator wires the escalation channels, substituting disabled
// collaborators when a channel is unconfigured so the rest of the service
// still runs.
func buildOrchestrator(st store.Store) *escalation.Orchestrator {
	var caller voicecall.Caller
	caller, err := voicecall.NewClient()
	if err != nil {
		slog.Warn("Voice-call client unavailable, voice channel disabled", "error", err)
		caller = disabledCaller{}
	}

	var sender email.Sender
	sender, err = email.NewSMTPSender()
	if err != nil {
		slog.Warn("Email sender unavailable, email channel disabled", "error", err)
		sender = disabledSender{}
	}

	timeout := util.ParseDurationEnv("ESCALATION_TIMEOUT", escalation.DefaultOperationTimeout)
	return escalation.NewOrchestrator(caller, sender, st, timeout)
}

// buildSessionManager constructs the configured flow variant and its
// classifier and selector.
func buildSessionManager(flags Flags, genaiClient genai.ClientInterface, st store.Store) (*flow.Manager, error) {
	scheme := models.PartScheme(*flags.partScheme)
	if !models.IsValidPartScheme(scheme) {
		return nil, fmt.Errorf("invalid part scheme %q", *flags.partScheme)
	}

	flowType := models.FlowType(*flags.sessionFlow)
	if !models.IsValidFlowType(flowType) {
		return nil, fmt.Errorf("invalid session flow %q", *flags.sessionFlow)
	}
	if flowType == models.FlowTypeGenAI {
		step := util.ParseIntEnv("SESSION_PROGRESS_STEP", flow.DefaultProgressStep)
		flow.Register(models.FlowTypeGenAI, flow.NewGenAIAdvancer(genaiClient, os.Getenv("SESSION_SYSTEM_PROMPT"), step))
	}

	advancer, err := flow.Resolve(flowType)
	if err != nil {
		return nil, err
	}

	return flow.NewManager(advancer, parts.NewClassifier(scheme), exercise.NewSelector(scheme), st), nil
}

// disabledGenAI rejects generation when no API key is configured.
type disabledGenAI struct{}

func (disabledGenAI) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", fmt.Errorf("%w: no API key configured", models.ErrGenerationFailed)
}

func (disabledGenAI) GenerateWithMessages(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	return "", fmt.Errorf("%w: no API key configured", models.ErrGenerationFailed)
}

// disabledCaller reports the unconfigured voice channel as a failure.
type disabledCaller struct{}

func (disabledCaller) PlaceCall(ctx context.Context) error {
	return fmt.Errorf("voice channel not configured")
}

// disabledSender reports the unconfigured email channel as a failure.
type disabledSender struct{}

func (disabledSender) Send(ctx context.Context, to, subject, body string) error {
	return fmt.Errorf("email channel not configured")
}
