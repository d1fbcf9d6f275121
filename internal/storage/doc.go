// Package storage caches partition results so repeated requests for the
// same multiset of values skip the search.
package storage
