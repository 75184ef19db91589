package main

// General API documentation for swaggo. Regenerate with `swag init` and
// build with -tags=swagger to serve the UI.
//
// @title           llamad control-plane API
// @version         1.0
// @description     Status and readiness of a supervised llama.cpp server.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
