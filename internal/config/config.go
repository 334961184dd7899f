package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	MLScorer    MLScorer    `mapstructure:",squash"`
	LeadRescore LeadRescore `mapstructure:",squash"`
	SecretKey   string      `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// MLScorer configura o serviço externo de pontuação de conversão
type MLScorer struct {
	URL                  string        `mapstructure:"ml_scorer_url"`
	SingleTimeout        time.Duration `mapstructure:"-"`
	BatchTimeout         time.Duration `mapstructure:"-"`
	SingleTimeoutSeconds int           `mapstructure:"ml_scorer_single_timeout_seconds"`
	BatchTimeoutSeconds  int           `mapstructure:"ml_scorer_batch_timeout_seconds"`
}

// LeadRescore configura o agendador de repontuação da base de leads
type LeadRescore struct {
	CronSchedule      string `mapstructure:"lead_rescore_cron"`
	MaxConcurrentJobs int    `mapstructure:"lead_rescore_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"lead_rescore_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/leads")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	viper.SetDefault("ML_SCORER_URL", "http://localhost:8501/predict")
	viper.SetDefault("ML_SCORER_SINGLE_TIMEOUT_SECONDS", 10)
	viper.SetDefault("ML_SCORER_BATCH_TIMEOUT_SECONDS", 30)

	// Defaults para a repontuação periódica de leads
	viper.SetDefault("LEAD_RESCORE_CRON", "0 */6 * * *") // A cada 6 horas
	viper.SetDefault("LEAD_RESCORE_MAX_CONCURRENT_JOBS", 5)
	viper.SetDefault("LEAD_RESCORE_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.MLScorer.SingleTimeout = time.Duration(config.MLScorer.SingleTimeoutSeconds) * time.Second
	config.MLScorer.BatchTimeout = time.Duration(config.MLScorer.BatchTimeoutSeconds) * time.Second

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
