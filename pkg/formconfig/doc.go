// Package formconfig loads declarative form definitions from JSON or YAML and
// applies them to a validator. A definition names the form selector and lists
// fields in registration order, each with its error container and rules:
//
//	form: "#registration"
//	fields:
//	  - selector: 'input[name="name"]'
//	    errorContainer: .name-errors
//	    rules:
//	      - rule: required
//	        message: Имя обязательно
//	      - rule: minLength
//	        value: 3
//	        message: Минимум 3 символа
//
// Custom rules reference predicates registered in a rules.Registry by name.
package formconfig
