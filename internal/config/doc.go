// Package config loads settings for the datactx command line tool.
//
// The configuration is stored in datactx.json in the working directory and
// every field may be overridden through DATACTX_* environment variables.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "datactx"
//	  },
//	  "demo": {
//	    "name": "World",
//	    "delay": "50ms",
//	    "debounce": "200ms"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Resolve("", ".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
