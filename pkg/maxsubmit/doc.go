// Package maxsubmit estimates how many request parameters a form submission
// will carry and, when the estimate exceeds a configured maximum, asks the
// user whether to submit anyway.
//
// The motivation is server-side limits such as PHP's max_input_vars, which
// silently discard parameters beyond the limit instead of rejecting the
// request. The check is advisory: it never enforces anything server-side.
//
// Guards are attached to forms through a Binder, which keeps an explicit list
// of guards per form and runs all of them, in registration order, whenever a
// submit is dispatched.
package maxsubmit
