package react

import (
	"fmt"
	"strings"

	"github.com/urmzd/oag/pkg/generator/typescript"
	"github.com/urmzd/oag/pkg/ir"
)

// hooksPrelude holds the shared hook state shapes.
const hooksPrelude = `export interface QueryState<T> {
  data: T | undefined;
  error: unknown;
  isLoading: boolean;
  refetch: () => void;
}

export interface MutationState<T, Args extends unknown[]> {
  trigger: (...args: Args) => Promise<T>;
  data: T | undefined;
  error: unknown;
  isMutating: boolean;
}

export interface StreamState<T> {
  events: T[];
  start: () => void;
  stop: () => void;
  isStreaming: boolean;
  error: unknown;
}
`

// hooksUnit renders one hook per operation: GET operations become query
// hooks, mutating methods mutation hooks, and streaming operations event
// accumulators with an explicit start callback.
func hooksUnit(spec *ir.Spec) string {
	var sb strings.Builder
	sb.WriteString("// Generated by oag. Do not edit.\n\n")
	sb.WriteString("import { useCallback, useEffect, useRef, useState } from \"react\";\n")
	sb.WriteString("import { useApiClient } from \"./provider\";\n")
	writeHookTypeImports(&sb, spec)
	sb.WriteString("\n")
	sb.WriteString(hooksPrelude)

	for _, op := range spec.Operations.All() {
		sb.WriteString("\n")
		switch {
		case op.Returns.Streaming:
			sb.WriteString(streamHook(op))
		case op.Method == ir.MethodGet:
			sb.WriteString(queryHook(op))
		default:
			sb.WriteString(mutationHook(op))
		}
	}
	return sb.String()
}

func hookName(op *ir.Operation) string { return "use" + op.ID.Pascal }

func queryHook(op *ir.Operation) string {
	params := strings.Join(typescript.MethodParams(op), ", ")
	args := strings.Join(typescript.MethodArgs(op), ", ")
	result := typescript.TypeExpr(op.Returns.Success)

	return fmt.Sprintf(`export function %s(%s): QueryState<%s> {
  const client = useApiClient();
  const [data, setData] = useState<%s | undefined>(undefined);
  const [error, setError] = useState<unknown>(undefined);
  const [isLoading, setLoading] = useState(true);
  const [tick, setTick] = useState(0);
  const argsKey = JSON.stringify([%s]);

  useEffect(() => {
    let cancelled = false;
    setLoading(true);
    client
      .%s(%s)
      .then((result) => {
        if (!cancelled) {
          setData(result);
          setError(undefined);
        }
      })
      .catch((err) => {
        if (!cancelled) {
          setError(err);
        }
      })
      .finally(() => {
        if (!cancelled) {
          setLoading(false);
        }
      });
    return () => {
      cancelled = true;
    };
  }, [client, argsKey, tick]);

  const refetch = useCallback(() => setTick((t) => t + 1), []);
  return { data, error, isLoading, refetch };
}
`, hookName(op), params, result, result, args, op.ID.Camel, args)
}

func mutationHook(op *ir.Operation) string {
	params := typescript.MethodParams(op)
	args := strings.Join(typescript.MethodArgs(op), ", ")
	result := typescript.TypeExpr(op.Returns.Success)
	tuple := "[" + strings.Join(params, ", ") + "]"

	return fmt.Sprintf(`export function %s(): MutationState<%s, %s> {
  const client = useApiClient();
  const [data, setData] = useState<%s | undefined>(undefined);
  const [error, setError] = useState<unknown>(undefined);
  const [isMutating, setMutating] = useState(false);

  const trigger = useCallback(
    async (%s): Promise<%s> => {
      setMutating(true);
      try {
        const result = await client.%s(%s);
        setData(result);
        setError(undefined);
        return result;
      } catch (err) {
        setError(err);
        throw err;
      } finally {
        setMutating(false);
      }
    },
    [client],
  );

  return { trigger, data, error, isMutating };
}
`, hookName(op), result, tuple, result, strings.Join(params, ", "), result, op.ID.Camel, args)
}

func streamHook(op *ir.Operation) string {
	params := strings.Join(typescript.MethodParams(op), ", ")
	args := strings.Join(typescript.MethodArgs(op), ", ")
	event := typescript.TypeExpr(op.Returns.Success)

	return fmt.Sprintf(`export function %s(%s): StreamState<%s> {
  const client = useApiClient();
  const [events, setEvents] = useState<%s[]>([]);
  const [error, setError] = useState<unknown>(undefined);
  const [isStreaming, setStreaming] = useState(false);
  const generation = useRef(0);

  const stop = useCallback(() => {
    generation.current += 1;
    setStreaming(false);
  }, []);

  const start = useCallback(() => {
    const mine = generation.current + 1;
    generation.current = mine;
    setEvents([]);
    setError(undefined);
    setStreaming(true);
    (async () => {
      try {
        for await (const event of client.%s(%s)) {
          if (generation.current !== mine) {
            return;
          }
          setEvents((prev) => [...prev, event]);
        }
      } catch (err) {
        if (generation.current === mine) {
          setError(err);
        }
      } finally {
        if (generation.current === mine) {
          setStreaming(false);
        }
      }
    })();
  }, [client, JSON.stringify([%s])]);

  return { events, start, stop, isStreaming, error };
}
`, hookName(op), params, event, event, op.ID.Camel, args, args)
}

// writeHookTypeImports imports the schema types the hook signatures mention.
func writeHookTypeImports(sb *strings.Builder, spec *ir.Spec) {
	names := typescript.ReferencedSchemaNames(spec)
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(sb, "import type { %s } from \"./types\";\n", strings.Join(names, ", "))
}
