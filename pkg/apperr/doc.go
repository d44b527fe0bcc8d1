// Package apperr defines the error taxonomy shared by every component that
// talks to the RxWare backends, and the single classification funnel that
// maps raw HTTP failures onto it.
//
// Classification is a pure function of the raw failure: the status code, the
// response message and the transport outcome. It never depends on prior
// errors or on any component state. Both the API client and screen-level
// error handling funnel through the same functions here, so the two entry
// points cannot drift apart in what they consider an authentication failure.
//
// # Taxonomy
//
//   - KindNetwork        – the request never produced a response
//   - KindAuthentication – the bearer credential is missing, invalid or expired
//   - KindAuthorization  – the credential is valid but lacks permission
//   - KindValidation     – the backend rejected the request payload
//   - KindServer         – the backend failed or the resource is missing
//   - KindUnknown        – anything that could not be classified
//
// Authentication-kind errors are never shown to the user as a generic error;
// callers are expected to convert them into a sign-out and navigation instead.
package apperr
