// Package resilience provides fault tolerance for calls to the content source.
//
// The package supports:
//   - Circuit breakers around the GraphQL endpoint and feed sources
//   - Retry logic with exponential backoff and jitter for transient failures
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.GraphQLConfig())
//	err := retry.WithBackoff(ctx, retry.GraphQLConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return client.doFetch(ctx)
//	    })
//	    return err
//	})
package resilience
