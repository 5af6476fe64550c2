// Package apiclient is the client side of the factory dashboard API.
//
// # Overview
//
// Every call returns a FetchResult instead of an error. Transport failures,
// non-2xx statuses and undecodable bodies all become a result with Success
// false and a human readable Error, so views can switch to fallback data
// without special casing. Requests are never retried.
//
// # Usage Example
//
//	client := apiclient.NewClient("http://localhost:8080/api", apiclient.WithTimeout(5*time.Second))
//
//	result := client.GetFactoryMetrics(ctx)
//	if !result.Success {
//		showAlert(result.Error)
//	}
//	metrics := result.OrElse(factoryapi.Metrics{Production: 1245, Efficiency: 89.2})
//
// Request and response shapes live in package factoryapi.
package apiclient
