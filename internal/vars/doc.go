// Package vars implements the path-scoped variable store.
//
// Every directory below the configuration root may hold declaration files
// (YAML or HCL attribute files). Their contents form the scope of that
// directory. The variables visible from a file are the deep merge of all
// scopes from the root down to the file's directory, deeper scopes winning
// leaf by leaf.
package vars
