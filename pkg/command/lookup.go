package command

// LookupOptionType walks every command and subcommand in the registry,
// depth-first in registration order, and returns the Type of the first
// Option whose Name or Alias equals key — per spec §4.2's "walk every
// command and subcommand; return the first matching option (by name OR
// alias). Default type when no definition matches is string."
func LookupOptionType(r *Registry, key string) ValueType {
	for _, cmd := range r.Commands() {
		if t, ok := lookupInCommand(cmd, key); ok {
			return t
		}
	}
	return TypeString
}

func lookupInCommand(cmd *Command, key string) (ValueType, bool) {
	if opt, ok := cmd.FindOption(key); ok {
		return opt.Type, true
	}
	for _, sub := range cmd.Subcommands {
		if t, ok := lookupInCommand(sub, key); ok {
			return t, true
		}
	}
	return "", false
}
