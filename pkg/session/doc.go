// Package session models the contract membership snapshot returned by the
// upstream session service and derives scoped roles and permissions from it.
//
// # Overview
//
// A party's session is a set of contract memberships, each carrying a role
// grant and the action scopes that role allows. The mapper functions project
// that snapshot onto one of three progressively narrower views:
//
//   - Party level: no contract or product given, every active membership
//     contributes. This aggregates across every contract the party can reach.
//   - Contract level: a contract ID narrows the view to that contract.
//   - Product level: a product ID additionally requires the membership's
//     product reference to match.
//
// # Permission Format
//
// Permissions are strings of the form "roleCode:actionType:resourceType":
//
//	owner:READ:BALANCE
//	account_viewer:READ:TRANSACTION
//	transaction_creator:WRITE:TRANSACTION
//
// A role grant with scopes but no role code contributes permissions under the
// "unknown" role.
//
// # Purity
//
// ExtractRoles and ExtractPermissions are pure: no I/O, no hidden state, and
// identical input always yields identical sets. Results are maps used as
// sets; ordering is deliberately absent.
package session
