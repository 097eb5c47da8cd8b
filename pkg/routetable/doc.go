// Package routetable loads canned routes from YAML: fixed bodies and
// redirects keyed by chi path patterns. It is meant for the small static
// surface every service grows (robots.txt, legacy redirects, stub
// endpoints) without writing a Service for each.
//
//	routes:
//	  - name: robots
//	    method: GET
//	    path: /robots.txt
//	    body: "User-agent: *\n"
//	  - path: /old/{page}
//	    redirect: https://docs.example.com/{page}
//	    status: 301
//
// Body, redirect and header values may reference path parameters as {name}.
package routetable
