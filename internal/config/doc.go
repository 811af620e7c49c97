// Package config provides configuration parsing for routedefs.
//
// The configuration is stored in routedefs.json next to the application.
// Every field is optional; missing fields take their defaults.
//
// # Configuration File Structure
//
//	{
//	  "distDir": ".next",
//	  "bundleExtensions": [".js"],
//	  "kinds": ["APP_PAGE", "APP_ROUTE", "PAGES", "PAGES_API"],
//	  "manifests": {
//	    "pages": "pages-manifest.json",
//	    "app": "app-paths-manifest.json"
//	  },
//	  "source": "s3",
//	  "s3": {
//	    "bucket": "builds",
//	    "prefix": "web/server",
//	    "region": "eu-west-1"
//	  },
//	  "server": {
//	    "port": 3030,
//	    "host": "localhost"
//	  },
//	  "watch": {
//	    "enabled": true,
//	    "interval": "500ms"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Dist:", cfg.DistPath())
package config
