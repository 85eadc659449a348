// Package sample declares configuration structs used to exercise typeschema.
package sample

import "time"

// Mode selects how the server starts.
type Mode string

const (
	ModeServlet  Mode = "servlet"
	ModeReactive Mode = "reactive"
	ModeNone     Mode = "none"
)

// Level is a numeric log level.
type Level int

// Application is the root of an application configuration file.
type Application struct {
	Name       string            `yaml:"name" validate:"required"`
	Server     Server            `yaml:"server"`
	Datasource *Datasource       `yaml:"datasource,omitempty"`
	Profiles   []string          `yaml:"profiles"`
	Labels     map[string]string `yaml:"labels"`
	Routes     []Route           `yaml:"routes"`
	Extra      any               `yaml:"extra"`
	Loggers    map[string]Level  `yaml:"loggers"`

	internal string
}

// Server configures the embedded web server.
type Server struct {
	Port     uint16        `yaml:"port"`
	Address  string        `yaml:"address"`
	Hostname string        `yaml:"hostname" deprecated:"use 'address'" replacement:"address"`
	Mode     Mode          `yaml:"mode"`
	Timeout  time.Duration `yaml:"timeout"`
	Started  time.Time     `yaml:"started"`
	Ignored  string        `yaml:"-"`
	TLS
}

// TLS is embedded into Server.
type TLS struct {
	KeyStore string `yaml:"key-store"`
	Enabled  bool   `yaml:"enabled"`
}

// Datasource configures a database connection.
type Datasource struct {
	URL      string  `validate:"required,url"`
	MaxConns int     `validate:"min=1"`
	Ratio    float64 `yaml:"ratio"`
	Legacy   bool    `yaml:"legacy" deprecated:"true"`
}

// Route forwards requests; routes may nest.
type Route struct {
	Path     string  `yaml:"path" validate:"required"`
	Children []Route `yaml:"children"`
}
