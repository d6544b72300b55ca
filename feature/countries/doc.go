// Package countries implements the country and exchange-rate API.
//
// A refresh pulls country metadata and USD exchange rates from the external
// sources, reconciles them (core/reconcile) and installs the result as one
// generation in the store. Read endpoints always see a complete generation.
//
// # HTTP Endpoints
//
//   - POST /countries/refresh : Fetches, reconciles and replaces the dataset.
//   - GET /countries : Lists countries (?region=, ?currency=, ?sort=gdp_desc).
//   - GET /countries/image : Serves the summary image of the last refresh.
//   - GET /countries/:name : Returns one country (exact, case-sensitive name).
//   - DELETE /countries/:name : Deletes one country.
//   - GET /status : Number of countries and last refresh timestamp.
//
// Only one refresh runs at a time; a concurrent request gets 409 Conflict.
package countries
