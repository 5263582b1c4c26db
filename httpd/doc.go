// Package httpd runs the sitemount serving loop: a minimal,
// single-threaded HTTP server around the sitemap dispatcher.
//
// One request is fully handled before the next connection is accepted.
// The accept loop wakes at least once per configured timeout to check
// for cooperative shutdown, so cancelling the serve context stops the
// server within one in-flight request plus one timeout interval:
//
//	srv, err := httpd.NewServer(httpd.Config{Port: 8080})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv.Register("/site", sitemap.Spec{Path: "/var/www/site"})
//	srv.Register("/api/ping", sitemap.Spec{Handler: pingHandler})
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Configuration can also be loaded from a YAML file, including a
// mounts section for static mounts:
//
//	port: 8080
//	host: 0.0.0.0
//	timeout: 5s
//	mounts:
//	  - uri: /site
//	    path: /var/www/site
package httpd
