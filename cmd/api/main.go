package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/leadflow/lead-manager-api/infrastructure/database/postgres"
	"github.com/leadflow/lead-manager-api/infrastructure/integrator/mlscorer"
	"github.com/leadflow/lead-manager-api/infrastructure/repository"
	"github.com/leadflow/lead-manager-api/internal/api"
	"github.com/leadflow/lead-manager-api/internal/config"
	"github.com/leadflow/lead-manager-api/internal/scheduler"
	"github.com/leadflow/lead-manager-api/internal/usecases/authenticating"
	"github.com/leadflow/lead-manager-api/internal/usecases/resolving"
	"github.com/leadflow/lead-manager-api/internal/usecases/scoring"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/sirupsen/logrus"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	leadRepo := repository.NewLeadRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	scorerClient := mlscorer.NewClient(cfg)

	resolver := resolving.NewService(leadRepo)
	tracker := tracking.NewService(leadRepo)
	scoringService := scoring.NewService(leadRepo, scorerClient, cfg)

	// Inicializa o agendador de repontuação periódica da base de leads
	leadRescoreService := scheduler.NewLeadRescoreService(leadRepo, scoringService, cfg)

	if err := leadRescoreService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de repontuação de leads")
	} else {
		logrus.Info("Agendador de repontuação de leads iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		resolver,
		tracker,
		scoringService,
		authenticator,
		leadRescoreService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
