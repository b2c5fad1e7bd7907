package config

import (
	"time"

	pkgconfig "github.com/forumkit/forum-search-service/pkg/config"
	"github.com/forumkit/forum-search-service/pkg/database"
)

type Config struct {
	Server        ServerConfig
	Elasticsearch ElasticsearchConfig
	Redis         RedisConfig
	Database      database.Config
	Cache         CacheConfig
	Search        SearchConfig
	Analytics     AnalyticsConfig
	Auth          AuthConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ElasticsearchConfig struct {
	Addresses   []string `mapstructure:"addresses"`
	IndexTopics string   `mapstructure:"index_topics"`
	IndexPosts  string   `mapstructure:"index_posts"`
	IndexUsers  string   `mapstructure:"index_users"`
	IndexTags   string   `mapstructure:"index_tags"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type SearchConfig struct {
	DefaultScope    string `mapstructure:"default_scope"`
	DefaultSortBy   string `mapstructure:"default_sort_by"`
	ItemsPerPage    int    `mapstructure:"items_per_page"`
	MaxItemsPerPage int    `mapstructure:"max_items_per_page"`
}

type AnalyticsConfig struct {
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8096)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index_topics", "forum-topics")
	v.SetDefault("elasticsearch.index_posts", "forum-posts")
	v.SetDefault("elasticsearch.index_users", "forum-users")
	v.SetDefault("elasticsearch.index_tags", "forum-tags")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "forum")
	v.SetDefault("database.name", "forum")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("cache.prefix", "search")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("search.default_scope", "titlesposts")
	v.SetDefault("search.default_sort_by", "relevance")
	v.SetDefault("search.items_per_page", 10)
	v.SetDefault("search.max_items_per_page", 100)
	v.SetDefault("analytics.debounce_window", "5s")
	v.SetDefault("auth.issuer", "forum")
	v.SetDefault("log.level", "info")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("elasticsearch.addresses", "ES_ADDRESSES")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
