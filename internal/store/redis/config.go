package redis

import "time"

type Config struct {
	Addr         string        `mapstructure:"addr" yaml:"addr" default:"localhost:6379"`
	Password     string        `mapstructure:"password" yaml:"password" default:""`
	DB           int           `mapstructure:"db" yaml:"db" default:"0"`
	KeyPrefix    string        `mapstructure:"key_prefix" yaml:"key_prefix" default:"sieve:"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" default:"3s"`
}
