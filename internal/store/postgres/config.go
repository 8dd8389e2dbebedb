package postgres

import (
	"net"
	"net/url"
	"strconv"
)

type Config struct {
	Host         string `mapstructure:"host" yaml:"host" default:"localhost"`
	Port         int    `mapstructure:"port" yaml:"port" default:"5432"`
	Name         string `mapstructure:"name" yaml:"name" default:"postgres"`
	User         string `mapstructure:"user" yaml:"user" default:"root"`
	Password     string `mapstructure:"password" yaml:"password" default:""`
	SSLMode      string `mapstructure:"sslmode" yaml:"sslmode" default:"disable"`
	MaxOpenConns int    `mapstructure:"max_open_conns" yaml:"max_open_conns" default:"5"`
}

// ConnectionURL
func (c *Config) ConnectionURL() *url.URL {
	pgURL := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		User:   url.UserPassword(c.User, c.Password),
		Path:   c.Name,
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q := pgURL.Query()
	q.Add("sslmode", sslMode)
	pgURL.RawQuery = q.Encode()

	return pgURL
}
