// Package handlespace bridges ledger services into the avatar relay's
// address space. Each bridge is a callable entity: it decodes the relayed
// payload as a JSON action and dispatches it to the ledger's application
// service with the avatar as the acting identity. Wiring between contexts
// happens here, in composition-root territory, so the contexts themselves
// stay import-isolated.
package handlespace
