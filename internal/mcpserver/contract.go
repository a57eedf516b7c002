package mcpserver

// DomainFormatContract describes the canonical YAML domain format that
// LLM consumers should follow when creating domain files.
const DomainFormatContract = `# Raido Domain Format Contract

Every narrative domain file stored in Raido MUST follow this structure.

## Structure

` + "```" + `yaml
name: fairy_tale                    # OPTIONAL - falls back to the file name
description: A short tale           # OPTIONAL
characters:                         # REQUIRED - every actor in the world
  - princess
  - dragon
locations:                          # REQUIRED - every place in the world
  - castle
intentions:                         # REQUIRED - the nodes of the graph
  - id: i1                          # REQUIRED - unique within the file
    character: dragon               # REQUIRED - who intends
    target: princess                # REQUIRED - toward whom (a character)
    location: castle                # REQUIRED - where
    description: Kidnap the princess  # OPTIONAL
dependencies:                       # OPTIONAL - the directed edges
  - from_intention: i1              # REQUIRED - an intention id
    to_intention: i2                # REQUIRED - an intention id
    type: motivational              # REQUIRED - intentional | motivational
` + "```" + `

## Rules

1. **File paths** end with ` + "`" + `.yaml` + "`" + ` or ` + "`" + `.yml` + "`" + ` and use forward slashes.
2. **Intention ids** are short, stable strings (e.g. ` + "`" + `i1` + "`" + `, ` + "`" + `kidnap` + "`" + `). Dependencies
   reference them by id.
3. **Dependency type** is exactly ` + "`" + `intentional` + "`" + ` (the from-intention requires the
   to-intention to have occurred) or ` + "`" + `motivational` + "`" + ` (the from-intention motivates
   the to-intention).
4. **Targets are characters.** The ` + "`" + `target` + "`" + ` field must name an entry of the
   ` + "`" + `characters` + "`" + ` list; otherwise the validation report flags it.
5. **Referential consistency is advisory.** A file with dangling references still
   loads and builds a graph, but ` + "`" + `validate_domain` + "`" + ` will report every dangling
   character, target, location, and intention reference. Aim for an empty report.
6. **Encoding** is UTF-8.

## Example

` + "```" + `yaml
name: rescue
characters:
  - princess
  - dragon
  - knight
locations:
  - castle
  - forest
intentions:
  - id: kidnap
    character: dragon
    target: princess
    location: castle
  - id: rescue
    character: knight
    target: princess
    location: castle
dependencies:
  - from_intention: kidnap
    to_intention: rescue
    type: motivational
` + "```" + `
`
