// Package http provides the client for the distribution platform's REST API.
//
// The Client in this package handles:
//   - Auth cookie / bearer token, User-Agent and request ID headers
//   - Multipart upload of distribution requests
//   - Mapping of error responses to user-facing messages
//   - Rate limiting, retries and a circuit breaker for GET requests
//
// # Basic Usage
//
//	client := http.NewClient(settings.ToClientConfig(), logger)
//
//	err := client.CreateDistributionRequest(ctx, payload)
//	var re *http.RequestError
//	if errors.As(err, &re) {
//	    fmt.Println(re.UserMessage()) // "Insufficient funds. ..."
//	}
//
// # Error Mapping
//
//	400 → "Validation error: <server message>"
//	406 → "Invalid format: <server message>"
//	409 → insufficient funds
//	500 → server error
//	no response → network error
package http
