/*
Package templating renders personal attendee pages from a single HTML
template.

The template language is deliberately tiny. A name placeholder is replaced
everywhere with the attendee's name, and one accommodation region of the form

	{% if accommodation_message %} ... {% elif accommodation %} ... {% else %} ... {% endif %}

is replaced wholesale by exactly one block: the attendee's custom message, a
fixed greeting naming their host, or the template's own fallback branch.
Markers are matched as literal substrings; there are no loops, nesting or
expressions, and nothing is escaped.

A template is parsed once into the text before the region, the region and the
text after it, so rendering an attendee is a pure string concatenation.
*/
package templating
