// Package server hosts the Fiber HTTP surface of the shortener: request-id and
// recover middleware, the shorten/history JSON routes and a health probe.
// Handlers only translate HTTP to shortener.Service calls, so keep business
// rules in the shortener package and accept explicit dependencies here.
package server
