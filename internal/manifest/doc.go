// Package manifest defines the launch manifest format.
//
// A manifest declares everything needed to bootstrap one application: the
// base image archive, the dependency list with version constraints, the
// source tree to copy in, and the entrypoint, environment, and port the
// application serves with. Manifests are YAML; unknown keys are rejected.
//
// Example manifest:
//
//	app: dashboard
//	image: base/python-slim.tar
//	installer: pip install --no-cache-dir
//	packages:
//	  - name: streamlit
//	    version: 1.37.0
//	source: ./src
//	entrypoint: [streamlit, run, app.py]
//	env:
//	  STREAMLIT_SERVER_HEADLESS: "true"
//	port: 8501/tcp
package manifest
