// Package network is a thin request/response layer over net/http. A Request
// describes one outbound call (endpoint, method, ordered query, headers, body
// and the decoder for its response); a Provider builds the transport request,
// executes it and classifies what went wrong:
//
//   - ErrInvalidURL / ErrInvalidParams: the request could not be built, no
//     transport call was attempted;
//   - ErrConnection: timeouts, unreachable hosts, refused or lost connections;
//   - ErrInvalidResponse: the transport returned no usable HTTP response;
//   - *DecodingError: the body did not decode into the caller's type.
//
// Any other transport error is returned as is. The package never retries and
// never caches responses.
package network
