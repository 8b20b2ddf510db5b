// Package domain contains the core value types shared by the traffic
// classification engine: filter decisions, response verdicts, domain kinds
// and the request/response/failure events observed from a browser session.
// These types are free of infrastructure concerns so the browser adapter,
// the classifier and the reporters can exchange them directly.
package domain
