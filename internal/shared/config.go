package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	PushgatewayURL string

	RapidBase      string
	RapidHost      string
	RapidKey       string
	RapidCountry   string
	ProductsPerCat int
	RapidDelay     time.Duration

	RedditBase      string
	RedditUserAgent string
	RedditLimit     int
	RedditDelay     time.Duration

	ClassifierURL       string
	ClassifierToken     string
	ClassifierMaxTokens int

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
	MailTo   []string

	StoreBackend string // file | sqlite | mysql
	SQLitePath   string
	MySQLDSN     string

	AmazonStorePath  string
	RedditStorePath  string
	RedditWeeklyPath string
	EnrichInputPath  string
	EnrichOutputPath string
	MergeAmazonPath  string
	MergeTopicPath   string
	MergeOutputPath  string

	SpikeThreshold  float64
	SpikeMinReviews int
	MergeSentiment  string // model | rating

	Categories []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		PushgatewayURL: env("PUSHGATEWAY_URL", ""),

		RapidBase:      env("RAPIDAPI_BASE_URL", "https://real-time-amazon-data.p.rapidapi.com"),
		RapidHost:      env("RAPIDAPI_HOST", "real-time-amazon-data.p.rapidapi.com"),
		RapidKey:       env("RAPIDAPI_KEY", ""),
		RapidCountry:   env("RAPIDAPI_COUNTRY", "US"),
		ProductsPerCat: atoi("PRODUCTS_PER_CATEGORY", 2),
		RapidDelay:     time.Duration(atoi("RAPIDAPI_DELAY_MS", 1500)) * time.Millisecond,

		RedditBase:      env("REDDIT_BASE_URL", "https://www.reddit.com"),
		RedditUserAgent: env("REDDIT_USER_AGENT", "ConsumerTrendAnalysisBot/1.0"),
		RedditLimit:     atoi("REDDIT_LIMIT", 100),
		RedditDelay:     time.Duration(atoi("REDDIT_DELAY_MS", 2000)) * time.Millisecond,

		ClassifierURL:       env("CLASSIFIER_URL", "https://api-inference.huggingface.co/models/ProsusAI/finbert"),
		ClassifierToken:     env("CLASSIFIER_TOKEN", ""),
		ClassifierMaxTokens: atoi("CLASSIFIER_MAX_TOKENS", 512),

		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 7*24*3600)) * time.Second,

		SMTPHost: env("SMTP_HOST", ""),
		SMTPPort: atoi("SMTP_PORT", 587),
		SMTPUser: env("SMTP_USER", ""),
		SMTPPass: env("SMTP_PASSWORD", ""),
		MailFrom: env("MAIL_FROM", ""),
		MailTo:   splitList(env("MAIL_TO", "")),

		StoreBackend: strings.ToLower(env("STORE_BACKEND", "file")),
		SQLitePath:   env("SQLITE_PATH", "final_data/trends.db"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/trends?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),

		AmazonStorePath:  env("AMAZON_STORE_PATH", "rapid_file_new.csv"),
		RedditStorePath:  env("REDDIT_STORE_PATH", "final_data/reddit_data_with_sentiment.xlsx"),
		RedditWeeklyPath: env("REDDIT_WEEKLY_PATH", "reddit_current_week_data.xlsx"),
		EnrichInputPath:  env("ENRICH_INPUT_PATH", "final data/rapid_api_reviews_final.csv"),
		EnrichOutputPath: env("ENRICH_OUTPUT_PATH", "rapid_file_new.csv"),
		MergeAmazonPath:  env("MERGE_AMAZON_PATH", "final data/rapid_api_reviews_final.csv"),
		MergeTopicPath:   env("MERGE_TOPIC_PATH", "final data/category_wise_lda_output_with_topic_labels.csv"),
		MergeOutputPath:  env("MERGE_OUTPUT_PATH", "review_rapid_combined.csv"),

		SpikeThreshold:  atof("SPIKE_THRESHOLD", 0.2),
		SpikeMinReviews: atoi("SPIKE_MIN_REVIEWS", 5),
		MergeSentiment:  strings.ToLower(env("MERGE_SENTIMENT_SOURCE", "model")),
	}

	c.Categories = Categories
	if p := os.Getenv("CATEGORIES_FILE"); p != "" {
		cats, err := LoadCategories(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("falling back to built-in categories")
		} else {
			c.Categories = cats
		}
	}

	if c.RapidKey == "" {
		log.Warn().Msg("RAPIDAPI_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
