package app

// CSPValue allows only same-origin resources; scripts may also instantiate
// WebAssembly.
const CSPValue = "default-src 'self'; script-src 'self' 'wasm-unsafe-eval'"

// Defaults are the configuration values used when no file or flag sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"app.name":  "securelogin",
		"app.debug": false,

		"app.server.http.address":                     "localhost:8080",
		"app.server.http.read_timeout_seconds":        15,
		"app.server.http.read_header_timeout_seconds": 5,
		"app.server.http.write_timeout_seconds":       15,
		"app.server.http.idle_timeout_seconds":        60,
		"app.server.http.shutdown_timeout_seconds":    5,
		"app.server.tls.cert_file":                    "",
		"app.server.tls.key_file":                     "",
		"app.server.csp.enabled":                      true,
		"app.server.csp.value":                        CSPValue,
		"app.server.cors":                             "",
		"app.server.max_goroutine":                    0,
		"app.static.dir":                              "",
		"app.maintenance.endpoints":                   "",

		"instrument.enabled":                 false,
		"instrument.service_name":            "securelogin",
		"instrument.env":                     "local",
		"instrument.otlp_endpoint":           "localhost:4317",
		"instrument.otlp_secure":             false,
		"instrument.trace_sample_ratio":      1.0,
		"instrument.metric_interval_seconds": 60,
		"instrument.log_mask_fields":         "password,salt,pepper,authorization,cookie",

		// argon2-browser defaults, with argon2id in place of argon2d.
		"hash.argon2.variant":     "argon2id",
		"hash.argon2.memory":      1024,
		"hash.argon2.iterations":  1,
		"hash.argon2.parallelism": 1,
		"hash.argon2.salt_length": 16,
		"hash.argon2.key_length":  24,
		"hash.argon2.pepper":      "",

		"build.compress_threshold": 1000,

		"page.base_url":        "http://localhost:8080",
		"page.endpoint":        "/api",
		"page.timeout_seconds": 0,
		"page.demo.password":   "password",
		"page.demo.salt":       "passhash",
	}
}
